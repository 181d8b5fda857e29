package crmsync

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/pkg/salesforce"
)

func savedLead(id, name string, status model.CRMStatus) model.BusinessLead {
	return model.BusinessLead{
		ID:          id,
		Name:        name,
		Industry:    "Dentist",
		Location:    "Porto Alegre",
		Status:      model.WebsiteStatusNoWebsite,
		CRMStatus:   status,
		ContactInfo: "+55 51 5555-0000",
		AuditScore:  25,
	}
}

type recordingSink struct{ got []model.BusinessLead }

func (r *recordingSink) Push(_ context.Context, leads []model.BusinessLead) (Result, error) {
	r.got = leads
	return Result{Created: len(leads)}, nil
}

func TestParseTarget(t *testing.T) {
	for _, v := range []string{"notion", "Salesforce", " xlsx "} {
		_, err := ParseTarget(v)
		assert.NoError(t, err, v)
	}
	_, err := ParseTarget("hubspot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestPush_SkipsUnsaved(t *testing.T) {
	sink := &recordingSink{}
	unsaved := savedLead("x", "Search Only", "")

	res, err := Push(context.Background(), sink, []model.BusinessLead{
		savedLead("a", "Acme", model.CRMStatusNew),
		unsaved,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	require.Len(t, sink.got, 1)
	assert.Equal(t, "Acme", sink.got[0].Name)
}

func TestPush_NothingSaved(t *testing.T) {
	sink := &recordingSink{}
	res, err := Push(context.Background(), sink, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Nil(t, sink.got)
}

func TestNotionSink_UpsertsByName(t *testing.T) {
	mc := new(mockNotion)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.Anything).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{{
			ID: "page-acme",
			Properties: notionapi.Properties{"Name": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: "Acme"}},
			}},
		}},
	}, nil).Once()
	mc.On("UpdatePage", ctx, "page-acme", mock.MatchedBy(func(req *notionapi.PageUpdateRequest) bool {
		stage, ok := req.Properties["Stage"].(notionapi.SelectProperty)
		return ok && stage.Select.Name == "MEETING"
	})).Return(&notionapi.Page{ID: "page-acme"}, nil).Once()
	mc.On("CreatePage", ctx, mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		title, ok := req.Properties["Name"].(notionapi.TitleProperty)
		return ok && title.Title[0].Text.Content == "Beta" &&
			req.Parent.DatabaseID == notionapi.DatabaseID("db-1")
	})).Return(&notionapi.Page{ID: "page-beta"}, nil).Once()

	sink := NewNotionSink(mc, "db-1")
	res, err := sink.Push(ctx, []model.BusinessLead{
		savedLead("a", "Acme", model.CRMStatusMeeting),
		savedLead("b", "Beta", model.CRMStatusNew),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Updated: 1}, res)
	mc.AssertExpectations(t)
}

func TestNotionSink_PageFailureCounted(t *testing.T) {
	mc := new(mockNotion)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.Anything).
		Return(&notionapi.DatabaseQueryResponse{}, nil).Once()
	mc.On("CreatePage", ctx, mock.Anything).Return(nil, errors.New("validation_error")).Once()
	mc.On("CreatePage", ctx, mock.Anything).Return(&notionapi.Page{ID: "ok"}, nil).Once()

	res, err := NewNotionSink(mc, "db-1").Push(ctx, []model.BusinessLead{
		savedLead("a", "Acme", model.CRMStatusNew),
		savedLead("b", "Beta", model.CRMStatusNew),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Acme")
}

func TestNotionSink_ListFailure(t *testing.T) {
	mc := new(mockNotion)
	mc.On("QueryDatabase", mock.Anything, "db-1", mock.Anything).Return(nil, errors.New("unauthorized"))

	_, err := NewNotionSink(mc, "db-1").Push(context.Background(), []model.BusinessLead{savedLead("a", "Acme", model.CRMStatusNew)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crmsync: notion list pages")
}

func TestNotionProperties_OptionalFields(t *testing.T) {
	l := savedLead("a", "Acme", model.CRMStatusNew)
	props := notionProperties(l)
	assert.NotContains(t, props, "Website")
	assert.NotContains(t, props, "Analysis")
	assert.Equal(t, "NO WEBSITE", props["Web Presence"].(notionapi.SelectProperty).Select.Name)

	l.Website = "https://acme.example"
	l.AIAnalysis = "Needs a landing page."
	props = notionProperties(l)
	assert.Equal(t, "https://acme.example", props["Website"].(notionapi.URLProperty).URL)
	assert.Contains(t, props, "Analysis")
}

func TestSalesforceSink_UpsertsByCompany(t *testing.T) {
	sf := &fakeSF{existing: []salesforce.Lead{{ID: "00Qacme", Company: "Acme"}}}

	res, err := NewSalesforceSink(sf).Push(context.Background(), []model.BusinessLead{
		savedLead("a", "Acme", model.CRMStatusClosed),
		savedLead("b", "Beta", model.CRMStatusNew),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Updated: 1}, res)

	require.Len(t, sf.updated, 1)
	assert.Equal(t, "00Qacme", sf.updated[0].ID)
	assert.Equal(t, "Closed - Converted", sf.updated[0].Fields["Status"])
	assert.NotContains(t, sf.updated[0].Fields, "LastName", "existing contact name is kept")

	require.Len(t, sf.inserted, 1)
	assert.Equal(t, "Beta", sf.inserted[0]["Company"])
	assert.Equal(t, "Unknown", sf.inserted[0]["LastName"])
	assert.Equal(t, "Open - Not Contacted", sf.inserted[0]["Status"])
	assert.Equal(t, "+55 51 5555-0000", sf.inserted[0]["Phone"])
}

func TestSalesforceSink_RecordFailure(t *testing.T) {
	sf := &fakeSF{rejectCompany: "Beta"}

	res, err := NewSalesforceSink(sf).Push(context.Background(), []model.BusinessLead{
		savedLead("a", "Acme", model.CRMStatusNew),
		savedLead("b", "Beta", model.CRMStatusLost),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"Beta: DUPLICATES_DETECTED"}, res.Errors)
}

func TestSalesforceSink_LookupFailure(t *testing.T) {
	sf := &fakeSF{queryErr: errors.New("INVALID_SESSION_ID")}
	_, err := NewSalesforceSink(sf).Push(context.Background(), []model.BusinessLead{savedLead("a", "Acme", model.CRMStatusNew)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crmsync: salesforce lookup")
	assert.Empty(t, sf.inserted)
}

func TestSpreadsheetSink_CreateThenUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.xlsx")
	sink := NewSpreadsheetSink(path)
	ctx := context.Background()

	res, err := sink.Push(ctx, []model.BusinessLead{
		savedLead("a", "Acme", model.CRMStatusNew),
		savedLead("b", "Beta", model.CRMStatusNew),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2}, res)

	acme := savedLead("a", "Acme", model.CRMStatusMeeting)
	acme.AuditScore = 80
	res, err = sink.Push(ctx, []model.BusinessLead{acme, savedLead("c", "Gamma", model.CRMStatusNew)})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Updated: 1}, res)

	rows, err := ReadSheet(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Acme", rows[0][0])
	assert.Equal(t, "MEETING", rows[0][1])
	score, err := strconv.Atoi(rows[0][7])
	require.NoError(t, err)
	assert.Equal(t, 80, score)
	assert.Contains(t, rows[0][8], "https://www.google.com/maps/search/")
	assert.Equal(t, "Beta", rows[1][0])
	assert.Equal(t, "Gamma", rows[2][0])
}

func TestSpreadsheetSink_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.xlsx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSpreadsheetSink(path).Push(ctx, []model.BusinessLead{savedLead("a", "Acme", model.CRMStatusNew)})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestReadSheet_Missing(t *testing.T) {
	_, err := ReadSheet(filepath.Join(t.TempDir(), "none.xlsx"))
	require.Error(t, err)
}
