package app

import (
	"context"
	"sync"

	"github.com/sells-group/prospector-cli/internal/model"
)

// memKV is an in-memory store.Store that counts writes.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
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
	m.puts++
	m.data[key] = value
	return nil
}

func (m *memKV) Migrate(context.Context) error { return nil }
func (m *memKV) Close() error                  { return nil }

func (m *memKV) putCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// stubBackend answers every discovery call from fixed values. A non-nil gate
// holds AnalyzeLead until closed.
type stubBackend struct {
	results   []model.BusinessLead
	searchErr error
	gate      chan struct{}
}

func (b *stubBackend) SearchLeads(context.Context, string, string, *model.Coordinates) ([]model.BusinessLead, error) {
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	return model.CloneLeads(b.results), nil
}

func (b *stubBackend) AnalyzeLead(_ context.Context, lead model.BusinessLead) (string, error) {
	if b.gate != nil {
		<-b.gate
	}
	return "analysis of " + lead.Name, nil
}

func (b *stubBackend) ResearchCompetitors(context.Context, model.BusinessLead) ([]model.Competitor, error) {
	return []model.Competitor{{Name: "Rival", Website: "rival.example", Advantage: "Reviews"}}, nil
}

func (b *stubBackend) DraftEmails(context.Context, model.BusinessLead, string) (model.EmailDrafts, error) {
	return model.EmailDrafts{
		model.EmailApproachDirect: "d",
		model.EmailApproachStory:  "s",
		model.EmailApproachUrgent: "u",
	}, nil
}

type echoResponder struct{}

func (echoResponder) ChatWithAI(_ context.Context, text string) (string, error) {
	return "echo: " + text, nil
}
