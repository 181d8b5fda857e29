// Package assistant implements the lead-intelligence backend on top of
// Claude, optionally grounding discovery in Google Places results.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/internal/monitoring"
	"github.com/sells-group/prospector-cli/pkg/anthropic"
	"github.com/sells-group/prospector-cli/pkg/google"
)

// Config selects models and limits per operation.
type Config struct {
	SearchModel   string
	AnalysisModel string
	DraftModel    string
	ChatModel     string
	MaxTokens     int64
	// RateLimit caps AI requests per second. Zero disables throttling.
	RateLimit float64
	// RadiusMeters is the Places location-bias radius for near-me searches.
	RadiusMeters float64
	MaxResults   int
	// BreakerThreshold consecutive failures pause requests for
	// BreakerCooldown.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithPlaces grounds lead searches in Google Places results.
func WithPlaces(c google.Client) Option {
	return func(a *Assistant) { a.places = c }
}

// Assistant answers discovery, enrichment and chat requests.
type Assistant struct {
	client  anthropic.Client
	places  google.Client
	cfg     Config
	limiter *rate.Limiter
	breaker *breaker
}

// New creates an Assistant backed by client.
func New(client anthropic.Client, cfg Config, opts ...Option) *Assistant {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	a := &Assistant{client: client, cfg: cfg, breaker: newBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown)}
	if cfg.RateLimit > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(int(cfg.RateLimit), 1))
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Assistant) wait(ctx context.Context) error {
	if a.limiter == nil {
		return nil
	}
	return a.limiter.Wait(ctx)
}

// complete sends one prompt and returns the reply text. Call metrics are
// recorded by the sessions that drive these operations.
func (a *Assistant) complete(ctx context.Context, op, modelID, system string, msgs []anthropic.Message) (string, error) {
	if err := a.breaker.allow(); err != nil {
		return "", eris.Wrapf(err, "assistant: %s", op)
	}
	if err := a.wait(ctx); err != nil {
		return "", eris.Wrapf(err, "assistant: %s rate limit", op)
	}

	req := anthropic.MessageRequest{
		Model:     modelID,
		MaxTokens: a.cfg.MaxTokens,
		Messages:  msgs,
	}
	if system != "" {
		req.System = anthropic.BuildCachedSystemBlocks(system)
	}

	resp, err := a.client.CreateMessage(ctx, req)
	a.breaker.record(err)
	if err != nil {
		return "", eris.Wrapf(err, "assistant: %s", op)
	}
	resp.Usage.LogCost(modelID, op)

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.Errorf("assistant: %s: empty response", op)
	}
	return text, nil
}

func single(prompt string) []anthropic.Message {
	return []anthropic.Message{{Role: "user", Content: prompt}}
}

// SearchLeads finds local businesses in niche around location. When
// coordinates are given they anchor the search instead of the location text,
// and a resolved address stands in for it on the returned leads.
func (a *Assistant) SearchLeads(ctx context.Context, niche, location string, coords *model.Coordinates) ([]model.BusinessLead, error) {
	area := location
	switch {
	case coords != nil && coords.Label != "":
		area = fmt.Sprintf("near %s (latitude %.5f, longitude %.5f)", coords.Label, coords.Lat, coords.Lng)
		location = coords.Label
	case coords != nil:
		area = fmt.Sprintf("near latitude %.5f, longitude %.5f", coords.Lat, coords.Lng)
	}

	grounding := a.ground(ctx, niche, location, coords)
	prompt := fmt.Sprintf(searchPrompt, a.cfg.MaxResults, niche, area, grounding)

	text, err := a.complete(ctx, monitoring.OpSearchLeads, a.cfg.SearchModel, searchSystem, single(prompt))
	if err != nil {
		return nil, err
	}

	var raw []searchResult
	if err := decode(text, leadsSchema, &raw); err != nil {
		return nil, eris.Wrap(err, "assistant: search leads")
	}

	leads := make([]model.BusinessLead, 0, len(raw))
	for _, r := range raw {
		leads = append(leads, r.lead(niche, location))
	}
	zap.L().Debug("assistant: leads found",
		zap.String("niche", niche),
		zap.String("location", location),
		zap.Int("count", len(leads)),
	)
	return leads, nil
}

// ground fetches Places matches to anchor the search prompt. Failures fall
// back to an ungrounded search.
func (a *Assistant) ground(ctx context.Context, niche, location string, coords *model.Coordinates) string {
	if a.places == nil {
		return noGrounding
	}

	req := google.TextSearchRequest{
		TextQuery:      niche + " in " + location,
		MaxResultCount: a.cfg.MaxResults,
	}
	if coords != nil {
		req.TextQuery = niche
		req.LocationBias = google.NearBias(coords.Lat, coords.Lng, a.cfg.RadiusMeters)
	}

	resp, err := a.places.TextSearch(ctx, req)
	if err != nil {
		zap.L().Warn("assistant: places grounding failed", zap.String("niche", niche), zap.Error(err))
		return noGrounding
	}
	if len(resp.Places) == 0 {
		return noGrounding
	}

	var b strings.Builder
	for i, p := range resp.Places {
		fmt.Fprintf(&b, "%d. %s | address: %s | website: %s | phone: %s | maps: %s | rating: %.1f (%d reviews)\n",
			i+1, p.DisplayName.Text, p.FormattedAddress, orNone(p.WebsiteURI),
			orNone(p.NationalPhoneNumber), orNone(p.GoogleMapsURI), p.Rating, p.UserRatingCount)
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// AnalyzeLead writes a short pitch-oriented analysis of the lead's digital presence.
func (a *Assistant) AnalyzeLead(ctx context.Context, lead model.BusinessLead) (string, error) {
	prompt := fmt.Sprintf(analyzePrompt, describe(lead))
	return a.complete(ctx, monitoring.OpAnalyzeLead, a.cfg.AnalysisModel, analyzeSystem, single(prompt))
}

// ResearchCompetitors lists nearby rivals and what they do better.
func (a *Assistant) ResearchCompetitors(ctx context.Context, lead model.BusinessLead) ([]model.Competitor, error) {
	prompt := fmt.Sprintf(competitorsPrompt, describe(lead))
	text, err := a.complete(ctx, monitoring.OpResearchCompetitors, a.cfg.AnalysisModel, competitorsSystem, single(prompt))
	if err != nil {
		return nil, err
	}

	var out []model.Competitor
	if err := decode(text, competitorsSchema, &out); err != nil {
		return nil, eris.Wrap(err, "assistant: research competitors")
	}
	return out, nil
}

// DraftEmails writes one cold email per approach, using the analysis as the
// pitch's basis.
func (a *Assistant) DraftEmails(ctx context.Context, lead model.BusinessLead, analysis string) (model.EmailDrafts, error) {
	prompt := fmt.Sprintf(draftPrompt, describe(lead), analysis)
	text, err := a.complete(ctx, monitoring.OpDraftEmails, a.cfg.DraftModel, draftSystem, single(prompt))
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := decode(text, emailsSchema, &raw); err != nil {
		return nil, eris.Wrap(err, "assistant: draft emails")
	}

	drafts := make(model.EmailDrafts, len(model.EmailApproaches))
	for _, approach := range model.EmailApproaches {
		drafts[approach] = strings.TrimSpace(raw[string(approach)])
	}
	return drafts, nil
}

// describe renders the lead facts shared by the enrichment prompts.
func describe(l model.BusinessLead) string {
	facts := map[string]any{
		"name":        l.Name,
		"industry":    l.Industry,
		"location":    l.Location,
		"website":     l.Website,
		"status":      l.Status,
		"auditScore":  l.AuditScore,
		"description": l.Description,
	}
	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return l.Name
	}
	return string(data)
}

// searchResult is one lead as the model reports it.
type searchResult struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	ContactInfo string `json:"contactInfo"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AuditScore  int    `json:"auditScore"`
	MapURL      string `json:"mapUrl"`
}

func (r searchResult) lead(niche, location string) model.BusinessLead {
	l := model.BusinessLead{
		Name:        strings.TrimSpace(r.Name),
		Industry:    strings.TrimSpace(r.Industry),
		Location:    strings.TrimSpace(r.Location),
		Website:     strings.TrimSpace(r.Website),
		ContactInfo: strings.TrimSpace(r.ContactInfo),
		Description: strings.TrimSpace(r.Description),
		Status:      model.WebsiteStatus(strings.ToUpper(strings.TrimSpace(r.Status))),
		AuditScore:  r.AuditScore,
		MapURL:      strings.TrimSpace(r.MapURL),
	}
	if l.Industry == "" {
		l.Industry = niche
	}
	if l.Location == "" {
		l.Location = location
	}
	return l
}
