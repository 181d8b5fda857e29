package api

import (
	"context"
	"sync"

	"github.com/sells-group/prospector-cli/internal/model"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Migrate(context.Context) error { return nil }
func (m *memKV) Close() error                  { return nil }

type stubBackend struct {
	searchErr error
}

func (b *stubBackend) SearchLeads(_ context.Context, niche, location string, _ *model.Coordinates) ([]model.BusinessLead, error) {
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	return []model.BusinessLead{
		{ID: "r1", Name: "Sunrise Dental", Industry: niche, Location: location, Status: model.WebsiteStatusOutdated, AuditScore: 35},
		{ID: "r2", Name: "Smile Co", Industry: niche, Location: location, Status: model.WebsiteStatusNoWebsite, AuditScore: 5},
	}, nil
}

func (b *stubBackend) AnalyzeLead(_ context.Context, lead model.BusinessLead) (string, error) {
	return "analysis of " + lead.Name, nil
}

func (b *stubBackend) ResearchCompetitors(context.Context, model.BusinessLead) ([]model.Competitor, error) {
	return []model.Competitor{{Name: "Rival"}}, nil
}

func (b *stubBackend) DraftEmails(context.Context, model.BusinessLead, string) (model.EmailDrafts, error) {
	return model.EmailDrafts{model.EmailApproachDirect: "d", model.EmailApproachStory: "s", model.EmailApproachUrgent: "u"}, nil
}

type echoResponder struct{}

func (echoResponder) ChatWithAI(_ context.Context, text string) (string, error) {
	return "echo: " + text, nil
}
