package model

import (
	"net/url"
	"slices"
	"strings"
)

// WebsiteStatus classifies the quality of a business's web presence.
type WebsiteStatus string

const (
	WebsiteStatusNoWebsite    WebsiteStatus = "NO_WEBSITE"
	WebsiteStatusOutdated     WebsiteStatus = "OUTDATED"
	WebsiteStatusNeedsLanding WebsiteStatus = "NEEDS_LANDING"
	WebsiteStatusGood         WebsiteStatus = "GOOD"
)

// WebsiteStatuses lists every website classification in display order.
var WebsiteStatuses = []WebsiteStatus{
	WebsiteStatusNoWebsite,
	WebsiteStatusOutdated,
	WebsiteStatusNeedsLanding,
	WebsiteStatusGood,
}

// Valid reports whether s is a known website classification.
func (s WebsiteStatus) Valid() bool {
	return slices.Contains(WebsiteStatuses, s)
}

// Label renders the status for display ("NO_WEBSITE" -> "NO WEBSITE").
func (s WebsiteStatus) Label() string {
	return strings.Replace(string(s), "_", " ", 1)
}

// CRMStatus is the pipeline stage of a saved lead.
type CRMStatus string

const (
	CRMStatusNew       CRMStatus = "NEW"
	CRMStatusContacted CRMStatus = "CONTACTED"
	CRMStatusMeeting   CRMStatus = "MEETING"
	CRMStatusClosed    CRMStatus = "CLOSED"
	CRMStatusLost      CRMStatus = "LOST"
)

// CRMStatuses lists every pipeline stage in board order.
var CRMStatuses = []CRMStatus{
	CRMStatusNew,
	CRMStatusContacted,
	CRMStatusMeeting,
	CRMStatusClosed,
	CRMStatusLost,
}

// Valid reports whether s is a known pipeline stage.
func (s CRMStatus) Valid() bool {
	return slices.Contains(CRMStatuses, s)
}

// IsTerminal reports whether the lead has left the active pipeline.
func (s CRMStatus) IsTerminal() bool {
	return s == CRMStatusClosed || s == CRMStatusLost
}

// ParseCRMStatus converts user input (case-insensitive) to a CRMStatus.
func ParseCRMStatus(v string) (CRMStatus, bool) {
	s := CRMStatus(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}

// Competitor is a rival business surfaced by competitor research.
type Competitor struct {
	Name      string `json:"name"`
	Website   string `json:"website"`
	Advantage string `json:"advantage"`
}

// Coordinates is a geographic position in decimal degrees. Label is the
// resolved address, when the position came from geocoding.
type Coordinates struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

// BusinessLead is a discovered or saved business. CRMStatus is empty for
// leads that only exist as search results.
type BusinessLead struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Industry    string        `json:"industry"`
	Location    string        `json:"location"`
	Status      WebsiteStatus `json:"status"`
	CRMStatus   CRMStatus     `json:"crmStatus,omitempty"`
	Website     string        `json:"website,omitempty"`
	ContactInfo string        `json:"contactInfo,omitempty"`
	Description string        `json:"description,omitempty"`
	AIAnalysis  string        `json:"aiAnalysis,omitempty"`
	Competitors []Competitor  `json:"competitors,omitempty"`
	AuditScore  int           `json:"auditScore"`
	MapURL      string        `json:"mapUrl,omitempty"`
}

// Saved reports whether the lead belongs to the Lead Store.
func (l BusinessLead) Saved() bool {
	return l.CRMStatus != ""
}

// Clone returns a deep copy of the lead.
func (l BusinessLead) Clone() BusinessLead {
	out := l
	if l.Competitors != nil {
		out.Competitors = slices.Clone(l.Competitors)
	}
	return out
}

// MapsSearchURL builds a Google Maps search link for the lead's name and location.
func (l BusinessLead) MapsSearchURL() string {
	q := url.QueryEscape(strings.TrimSpace(l.Name + " " + l.Location))
	return "https://www.google.com/maps/search/?api=1&query=" + q
}

// ClampAuditScore bounds a digital-presence score to 0..100.
func ClampAuditScore(v int) int {
	return min(max(v, 0), 100)
}

// CloneLeads deep-copies a lead sequence.
func CloneLeads(leads []BusinessLead) []BusinessLead {
	if leads == nil {
		return nil
	}
	out := make([]BusinessLead, len(leads))
	for i, l := range leads {
		out[i] = l.Clone()
	}
	return out
}
