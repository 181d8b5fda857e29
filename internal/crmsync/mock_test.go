package crmsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/prospector-cli/pkg/salesforce"
)

type mockNotion struct {
	mock.Mock
}

func (m *mockNotion) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *mockNotion) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *mockNotion) UpdatePage(ctx context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, pageID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

// fakeSF records collection calls and serves Query from a fixed set of leads.
type fakeSF struct {
	mu       sync.Mutex
	existing []salesforce.Lead
	queryErr error
	inserted []map[string]any
	updated  []salesforce.CollectionRecord
	// rejectCompany makes the insert of that company fail.
	rejectCompany string
}

func (f *fakeSF) Query(_ context.Context, _ string, out any) error {
	if f.queryErr != nil {
		return f.queryErr
	}
	*(out.(*[]salesforce.Lead)) = append([]salesforce.Lead(nil), f.existing...)
	return nil
}

func (f *fakeSF) InsertOne(context.Context, string, map[string]any) (string, error) {
	return "", fmt.Errorf("unexpected InsertOne")
}

func (f *fakeSF) InsertCollection(_ context.Context, _ string, records []map[string]any) ([]salesforce.CollectionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]salesforce.CollectionResult, len(records))
	for i, r := range records {
		f.inserted = append(f.inserted, r)
		if r["Company"] == f.rejectCompany {
			out[i] = salesforce.CollectionResult{Errors: []string{"DUPLICATES_DETECTED"}}
			continue
		}
		out[i] = salesforce.CollectionResult{ID: fmt.Sprintf("00Qnew%d", i), Success: true}
	}
	return out, nil
}

func (f *fakeSF) UpdateOne(context.Context, string, string, map[string]any) error {
	return fmt.Errorf("unexpected UpdateOne")
}

func (f *fakeSF) UpdateCollection(_ context.Context, _ string, records []salesforce.CollectionRecord) ([]salesforce.CollectionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, records...)
	out := make([]salesforce.CollectionResult, len(records))
	for i, r := range records {
		out[i] = salesforce.CollectionResult{ID: r.ID, Success: true}
	}
	return out, nil
}
