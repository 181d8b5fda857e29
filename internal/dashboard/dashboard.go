// Package dashboard derives pipeline statistics and the kanban board from
// the saved leads.
package dashboard

import (
	"github.com/rotisserie/eris"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sells-group/prospector-cli/internal/model"
)

// Config controls revenue estimation and formatting.
type Config struct {
	AverageDealSize float64
	Currency        string // ISO 4217, e.g. "USD"
	Language        string // BCP 47, e.g. "en-US"
}

// Stats summarizes the saved pipeline.
type Stats struct {
	SavedLeads       int     `json:"savedLeads"`
	Contacted        int     `json:"contacted"`
	ContactedRate    float64 `json:"contactedRate"`
	Meetings         int     `json:"meetings"`
	ClosedDeals      int     `json:"closedDeals"`
	Lost             int     `json:"lost"`
	AverageDealSize  float64 `json:"averageDealSize"`
	PotentialRevenue float64 `json:"potentialRevenue"`
	AvgAuditScore    float64 `json:"avgAuditScore"`
}

// Summarize computes Stats over leads. Every lead that has moved past NEW
// counts as contacted.
func Summarize(leads []model.BusinessLead, cfg Config) Stats {
	s := Stats{SavedLeads: len(leads), AverageDealSize: cfg.AverageDealSize}
	if len(leads) == 0 {
		return s
	}

	var scoreSum int
	for _, l := range leads {
		scoreSum += l.AuditScore
		switch l.CRMStatus {
		case model.CRMStatusMeeting:
			s.Meetings++
		case model.CRMStatusClosed:
			s.ClosedDeals++
		case model.CRMStatusLost:
			s.Lost++
		}
		if l.CRMStatus != model.CRMStatusNew {
			s.Contacted++
		}
	}

	s.ContactedRate = float64(s.Contacted) / float64(len(leads))
	s.PotentialRevenue = float64(s.ClosedDeals) * cfg.AverageDealSize
	s.AvgAuditScore = float64(scoreSum) / float64(len(leads))
	return s
}

// Formatter renders stats for a locale and currency.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter parses the language tag and currency code from cfg.
func NewFormatter(cfg Config) (*Formatter, error) {
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: parse language %q", cfg.Language)
	}
	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		return nil, eris.Wrapf(err, "dashboard: parse currency %q", cfg.Currency)
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// Money formats a whole-unit amount prefixed by the ISO currency code.
func (f *Formatter) Money(v float64) string {
	return f.printer.Sprintf("%v %v", f.unit, number.Decimal(v, number.MaxFractionDigits(0)))
}

// Percent formats a 0..1 ratio with one decimal.
func (f *Formatter) Percent(ratio float64) string {
	return f.printer.Sprintf("%.1f%%", ratio*100)
}

// Count formats an integer with grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Card is one dashboard tile.
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Cards renders the dashboard tiles in display order.
func (f *Formatter) Cards(s Stats) []Card {
	return []Card{
		{Title: "Saved Leads", Value: f.Count(s.SavedLeads)},
		{Title: "Contacted Rate", Value: f.Percent(s.ContactedRate)},
		{Title: "Closed Deals", Value: f.Count(s.ClosedDeals)},
		{Title: "Potential Revenue", Value: f.Money(s.PotentialRevenue)},
		{Title: "Average Deal Size", Value: f.Money(s.AverageDealSize)},
		{Title: "Avg Audit Score", Value: f.printer.Sprintf("%.0f", s.AvgAuditScore)},
	}
}
