package api

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sells-group/prospector-cli/internal/model"
)

type viewRequest struct {
	View string `json:"view" validate:"required,oneof=dashboard search chat leads"`
}

// searchRequest leaves blank fields to the controller, which answers them
// with a notice.
type searchRequest struct {
	Niche    string `json:"niche" validate:"max=200"`
	Location string `json:"location" validate:"max=200"`
}

type selectRequest struct {
	ID string `json:"id" validate:"required"`
}

// saveRequest saves the selected lead when ID is empty.
type saveRequest struct {
	ID string `json:"id"`
}

type statusRequest struct {
	Status string `json:"crmStatus" validate:"required,oneof=NEW CONTACTED MEETING CLOSED LOST"`
}

type chatRequest struct {
	Text string `json:"text" validate:"max=4000"`
}

type competitorRequest struct {
	Name      string `json:"name" validate:"required"`
	Website   string `json:"website"`
	Advantage string `json:"advantage"`
}

type leadRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name" validate:"required,max=200"`
	Industry    string              `json:"industry" validate:"max=200"`
	Location    string              `json:"location" validate:"max=200"`
	Website     string              `json:"website" validate:"omitempty,max=500"`
	ContactInfo string              `json:"contactInfo"`
	Description string              `json:"description"`
	MapURL      string              `json:"mapUrl" validate:"omitempty,url"`
	Status      string              `json:"status" validate:"omitempty,oneof=NO_WEBSITE OUTDATED NEEDS_LANDING GOOD"`
	AuditScore  int                 `json:"auditScore" validate:"gte=0,lte=100"`
	AIAnalysis  string              `json:"aiAnalysis"`
	Competitors []competitorRequest `json:"competitors" validate:"dive"`
}

func (r leadRequest) lead() model.BusinessLead {
	l := model.BusinessLead{
		ID:          strings.TrimSpace(r.ID),
		Name:        strings.TrimSpace(r.Name),
		Industry:    r.Industry,
		Location:    r.Location,
		Website:     r.Website,
		ContactInfo: r.ContactInfo,
		Description: r.Description,
		MapURL:      r.MapURL,
		Status:      model.WebsiteStatus(r.Status),
		AuditScore:  r.AuditScore,
		AIAnalysis:  r.AIAnalysis,
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = model.WebsiteStatusNoWebsite
		if l.Website != "" {
			l.Status = model.WebsiteStatusNeedsLanding
		}
	}
	if l.MapURL == "" {
		l.MapURL = l.MapsSearchURL()
	}
	for _, c := range r.Competitors {
		l.Competitors = append(l.Competitors, model.Competitor(c))
	}
	return l
}
