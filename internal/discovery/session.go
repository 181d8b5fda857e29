// Package discovery holds the state of one prospecting search: the query, the
// result set, the selected lead, and that lead's enrichment.
package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/internal/monitoring"
)

// LocationPlaceholder replaces the location text once a device position has
// been attached to the query.
const LocationPlaceholder = "My current location"

var (
	// ErrMissingQuery is returned by Search when niche or location is blank.
	ErrMissingQuery = eris.New("discovery: niche and location are required")
	// ErrUnknownLead is returned when selecting an id absent from the results.
	ErrUnknownLead = eris.New("discovery: lead not in results")
	// ErrSuperseded is returned by a search overtaken by a newer one.
	ErrSuperseded = eris.New("discovery: search superseded")
)

// Backend is the AI service used for discovery and enrichment.
type Backend interface {
	SearchLeads(ctx context.Context, niche, location string, coords *model.Coordinates) ([]model.BusinessLead, error)
	AnalyzeLead(ctx context.Context, lead model.BusinessLead) (string, error)
	ResearchCompetitors(ctx context.Context, lead model.BusinessLead) ([]model.Competitor, error)
	DraftEmails(ctx context.Context, lead model.BusinessLead, analysis string) (model.EmailDrafts, error)
}

// Locator yields the device position for "near me" searches.
type Locator interface {
	CurrentPosition(ctx context.Context) (model.Coordinates, error)
}

// Query is the current search input.
type Query struct {
	Niche       string             `json:"niche"`
	Location    string             `json:"location"`
	Coordinates *model.Coordinates `json:"coordinates,omitempty"`
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Query      Query                `json:"query"`
	Results    []model.BusinessLead `json:"results"`
	Searching  bool                 `json:"searching"`
	Selected   *model.BusinessLead  `json:"selected,omitempty"`
	Enrichment Enrichment           `json:"enrichment"`
}

// Session is one search view's worth of state. All fields are guarded by mu;
// backend calls run without the lock held.
type Session struct {
	mu      sync.Mutex
	backend Backend

	query     Query
	results   []model.BusinessLead
	searching bool
	searchGen uint64

	selected   *model.BusinessLead
	epoch      uint64
	enrichment Enrichment

	wg sync.WaitGroup
}

// NewSession creates an empty session.
func NewSession(backend Backend) *Session {
	return &Session{
		backend:    backend,
		results:    []model.BusinessLead{},
		enrichment: Enrichment{Emails: model.EmailDrafts{}},
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Query:      s.query,
		Results:    model.CloneLeads(s.results),
		Searching:  s.searching,
		Enrichment: s.enrichment.clone(),
	}
	if s.query.Coordinates != nil {
		c := *s.query.Coordinates
		snap.Query.Coordinates = &c
	}
	if s.selected != nil {
		l := s.selected.Clone()
		snap.Selected = &l
	}
	return snap
}

// SetLocation replaces the location text. Editing the text away from the
// placeholder drops any attached coordinates.
func (s *Session) SetLocation(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Location = location
	if location != LocationPlaceholder {
		s.query.Coordinates = nil
	}
}

// UseMyLocation asks loc for the device position and attaches it to the
// query, showing the placeholder as the location text. On failure the query
// is unchanged.
func (s *Session) UseMyLocation(ctx context.Context, loc Locator) (model.Coordinates, error) {
	pos, err := loc.CurrentPosition(ctx)
	if err != nil {
		return model.Coordinates{}, eris.Wrap(err, "discovery: use my location")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Location = LocationPlaceholder
	s.query.Coordinates = &pos
	return pos, nil
}

// Search replaces the result set with the backend's leads for niche and
// location. Results, selection and enrichment are cleared before the request
// is issued, and the selection is cleared again when the results land, so a
// lead selected while the search was pending never outlives it. In-flight
// enrichment results are discarded when they arrive.
// Coordinates from UseMyLocation are sent while the location text is still
// the placeholder.
func (s *Session) Search(ctx context.Context, niche, location string) ([]model.BusinessLead, error) {
	niche, location = strings.TrimSpace(niche), strings.TrimSpace(location)
	if niche == "" || location == "" {
		return nil, ErrMissingQuery
	}

	s.mu.Lock()
	var coords *model.Coordinates
	if location == LocationPlaceholder && s.query.Coordinates != nil {
		c := *s.query.Coordinates
		coords = &c
	}
	s.query = Query{Niche: niche, Location: location, Coordinates: coords}
	s.searchGen++
	gen := s.searchGen
	s.searching = true
	s.results = []model.BusinessLead{}
	s.resetSelectionLocked()
	s.mu.Unlock()

	log := zap.L().With(zap.String("niche", niche), zap.String("location", location))
	log.Info("discovery: searching", zap.Bool("near_me", coords != nil))

	start := time.Now()
	leads, err := s.backend.SearchLeads(ctx, niche, location, coords)
	monitoring.ObserveAI(monitoring.OpSearchLeads, start, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.searchGen {
		log.Debug("discovery: superseded search result dropped")
		return nil, ErrSuperseded
	}
	s.searching = false
	if s.selected != nil {
		log.Debug("discovery: selection made during search cleared", zap.String("lead", s.selected.Name))
		s.resetSelectionLocked()
	}
	if err != nil {
		s.results = []model.BusinessLead{}
		return nil, eris.Wrap(err, "discovery: search leads")
	}

	s.results = normalizeResults(leads)
	log.Info("discovery: search complete", zap.Int("results", len(s.results)))
	return model.CloneLeads(s.results), nil
}

// normalizeResults assigns missing or repeated ids, strips CRM state, bounds
// the audit score, and fills in a Maps link.
func normalizeResults(leads []model.BusinessLead) []model.BusinessLead {
	out := make([]model.BusinessLead, 0, len(leads))
	seen := make(map[string]bool, len(leads))
	for _, l := range leads {
		l = l.Clone()
		if l.ID == "" || seen[l.ID] {
			l.ID = uuid.NewString()
		}
		seen[l.ID] = true
		l.CRMStatus = ""
		l.AuditScore = model.ClampAuditScore(l.AuditScore)
		if !l.Status.Valid() {
			l.Status = model.WebsiteStatusNeedsLanding
			if l.Website == "" {
				l.Status = model.WebsiteStatusNoWebsite
			}
		}
		if l.MapURL == "" {
			l.MapURL = l.MapsSearchURL()
		}
		out = append(out, l)
	}
	return out
}

// Lookup returns the result with the given id.
func (s *Session) Lookup(id string) (model.BusinessLead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.results {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return model.BusinessLead{}, false
}

// SelectID selects the result with the given id and starts its enrichment.
func (s *Session) SelectID(ctx context.Context, id string) (model.BusinessLead, error) {
	lead, ok := s.Lookup(id)
	if !ok {
		return model.BusinessLead{}, eris.Wrapf(ErrUnknownLead, "id %q", id)
	}
	s.Select(ctx, lead)
	return lead, nil
}

// Wait blocks until every enrichment workflow started so far has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

// resetSelectionLocked clears selection and enrichment and invalidates
// in-flight enrichment. Callers hold mu.
func (s *Session) resetSelectionLocked() {
	s.selected = nil
	s.epoch++
	s.enrichment = Enrichment{Emails: model.EmailDrafts{}}
}
