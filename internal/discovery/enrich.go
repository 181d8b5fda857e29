package discovery

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/internal/monitoring"
)

// AnalysisErrorText replaces the analysis when any enrichment call fails.
const AnalysisErrorText = "Error processing lead intelligence."

// EnrichmentState is the lifecycle of one selection's enrichment.
type EnrichmentState int

const (
	EnrichmentIdle EnrichmentState = iota
	EnrichmentLoading
	EnrichmentReady
	EnrichmentFailed
)

var enrichmentStateNames = [...]string{"idle", "loading", "ready", "failed"}

func (s EnrichmentState) String() string {
	if int(s) < len(enrichmentStateNames) {
		return enrichmentStateNames[s]
	}
	return "unknown"
}

// MarshalText renders the state name in JSON.
func (s EnrichmentState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Enrichment is the AI-derived material for the selected lead.
type Enrichment struct {
	State       EnrichmentState    `json:"state"`
	Analysis    string             `json:"analysis,omitempty"`
	Competitors []model.Competitor `json:"competitors"`
	Emails      model.EmailDrafts  `json:"emails"`
}

func (e Enrichment) clone() Enrichment {
	out := e
	out.Competitors = append([]model.Competitor{}, e.Competitors...)
	out.Emails = e.Emails.Clone()
	if out.Emails == nil {
		out.Emails = model.EmailDrafts{}
	}
	return out
}

// Loading reports whether enrichment is in progress.
func (e Enrichment) Loading() bool { return e.State == EnrichmentLoading }

// Select makes lead the current selection and starts its enrichment in the
// background: analysis and competitor research run concurrently, then email
// drafting runs on the analysis text. Results are merged only while lead is
// still the selection. Backend calls are detached from ctx cancellation so a
// finished HTTP request does not abort them; they carry its values.
func (s *Session) Select(ctx context.Context, lead model.BusinessLead) uint64 {
	s.mu.Lock()
	s.resetSelectionLocked()
	sel := lead.Clone()
	s.selected = &sel
	s.enrichment.State = EnrichmentLoading
	epoch := s.epoch
	s.wg.Add(1)
	s.mu.Unlock()

	go s.enrich(context.WithoutCancel(ctx), epoch, lead.Clone())
	return epoch
}

func (s *Session) enrich(ctx context.Context, epoch uint64, lead model.BusinessLead) {
	defer s.wg.Done()
	log := zap.L().With(zap.String("lead", lead.Name), zap.Uint64("epoch", epoch))

	var (
		analysis    string
		competitors []model.Competitor
	)

	// A plain Group: one failing call must not cancel its sibling.
	var g errgroup.Group
	g.Go(func() error {
		start := time.Now()
		text, err := s.backend.AnalyzeLead(ctx, lead)
		monitoring.ObserveAI(monitoring.OpAnalyzeLead, start, err)
		if err != nil {
			return eris.Wrap(err, "discovery: analyze lead")
		}
		analysis = text
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		comps, err := s.backend.ResearchCompetitors(ctx, lead)
		monitoring.ObserveAI(monitoring.OpResearchCompetitors, start, err)
		if err != nil {
			return eris.Wrap(err, "discovery: research competitors")
		}
		competitors = comps
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn("discovery: enrichment failed", zap.Error(err))
		s.fail(epoch, "analysis")
		return
	}

	if !s.apply(epoch, "analysis", func(e *Enrichment) {
		e.Analysis = analysis
		e.Competitors = append([]model.Competitor{}, competitors...)
	}) {
		return
	}

	start := time.Now()
	emails, err := s.backend.DraftEmails(ctx, lead, analysis)
	monitoring.ObserveAI(monitoring.OpDraftEmails, start, err)
	if err != nil {
		log.Warn("discovery: email drafting failed", zap.Error(eris.Wrap(err, "discovery: draft emails")))
		s.fail(epoch, "emails")
		return
	}

	if s.apply(epoch, "emails", func(e *Enrichment) {
		e.Emails = emails.Clone()
		if e.Emails == nil {
			e.Emails = model.EmailDrafts{}
		}
		e.State = EnrichmentReady
	}) {
		log.Debug("discovery: enrichment ready")
	}
}

// apply runs fn on the enrichment if epoch is still current and reports
// whether it did. Stale results are dropped.
func (s *Session) apply(epoch uint64, step string, fn func(*Enrichment)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		monitoring.StaleResultsDropped.WithLabelValues(step).Inc()
		zap.L().Debug("discovery: stale result dropped",
			zap.String("step", step),
			zap.Uint64("epoch", epoch),
			zap.Uint64("current", s.epoch),
		)
		return false
	}
	fn(&s.enrichment)
	return true
}

func (s *Session) fail(epoch uint64, step string) {
	s.apply(epoch, step, func(e *Enrichment) {
		e.State = EnrichmentFailed
		e.Analysis = AnalysisErrorText
		e.Competitors = []model.Competitor{}
		e.Emails = model.EmailDrafts{}
	})
}
