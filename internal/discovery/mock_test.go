package discovery

import (
	"context"
	"sync"

	"github.com/sells-group/prospector-cli/internal/model"
)

// fakeBackend implements Backend with per-call hooks and a call log.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	search      func(niche, location string, coords *model.Coordinates) ([]model.BusinessLead, error)
	analyze     func(lead model.BusinessLead) (string, error)
	competitors func(lead model.BusinessLead) ([]model.Competitor, error)
	draft       func(lead model.BusinessLead, analysis string) (model.EmailDrafts, error)
}

func (f *fakeBackend) record(op, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op+":"+name)
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) count(call string) int {
	n := 0
	for _, c := range f.callLog() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) SearchLeads(_ context.Context, niche, location string, coords *model.Coordinates) ([]model.BusinessLead, error) {
	f.record("search", niche)
	if f.search != nil {
		return f.search(niche, location, coords)
	}
	return nil, nil
}

func (f *fakeBackend) AnalyzeLead(_ context.Context, lead model.BusinessLead) (string, error) {
	f.record("analyze", lead.Name)
	if f.analyze != nil {
		return f.analyze(lead)
	}
	return "analysis of " + lead.Name, nil
}

func (f *fakeBackend) ResearchCompetitors(_ context.Context, lead model.BusinessLead) ([]model.Competitor, error) {
	f.record("competitors", lead.Name)
	if f.competitors != nil {
		return f.competitors(lead)
	}
	return []model.Competitor{{Name: "rival of " + lead.Name, Website: "rival.example", Advantage: "reviews"}}, nil
}

func (f *fakeBackend) DraftEmails(_ context.Context, lead model.BusinessLead, analysis string) (model.EmailDrafts, error) {
	f.record("draft", lead.Name)
	if f.draft != nil {
		return f.draft(lead, analysis)
	}
	return model.EmailDrafts{
		model.EmailApproachDirect: "direct for " + lead.Name + " using " + analysis,
		model.EmailApproachStory:  "story for " + lead.Name,
		model.EmailApproachUrgent: "urgent for " + lead.Name,
	}, nil
}

type fakeLocator struct {
	pos model.Coordinates
	err error
}

func (l fakeLocator) CurrentPosition(context.Context) (model.Coordinates, error) {
	return l.pos, l.err
}
