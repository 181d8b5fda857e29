package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/pkg/anthropic"
	anthropicmocks "github.com/sells-group/prospector-cli/pkg/anthropic/mocks"
	"github.com/sells-group/prospector-cli/pkg/google"
	googlemocks "github.com/sells-group/prospector-cli/pkg/google/mocks"
)

func testConfig() Config {
	return Config{
		SearchModel:   "claude-sonnet-4-5-20250929",
		AnalysisModel: "claude-sonnet-4-5-20250929",
		DraftModel:    "claude-haiku-4-5-20251001",
		ChatModel:     "claude-haiku-4-5-20251001",
		MaxTokens:     1024,
		RadiusMeters:  5000,
		MaxResults:    5,
	}
}

func reply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}

func sampleLead() model.BusinessLead {
	return model.BusinessLead{
		ID:         "l1",
		Name:       "Sunrise Dental",
		Industry:   "Dentist",
		Location:   "Porto Alegre",
		Status:     model.WebsiteStatusOutdated,
		AuditScore: 35,
	}
}

func TestSearchLeads_ParsesFencedArray(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-sonnet-4-5-20250929" &&
			req.MaxTokens == 1024 &&
			len(req.System) == 1 && req.System[0].CacheControl != nil &&
			strings.Contains(req.Messages[0].Content, `"Dentist"`) &&
			strings.Contains(req.Messages[0].Content, "located Porto Alegre")
	})).Return(reply("Here you go:\n```json\n"+`[
		{"name":"Sunrise Dental","status":"outdated","auditScore":35,"website":"sunrise.example"},
		{"name":"Smile Co","industry":"Orthodontist","location":"Centro","status":"NO_WEBSITE","auditScore":10}
	]`+"\n```"), nil)

	a := New(client, testConfig())
	leads, err := a.SearchLeads(context.Background(), "Dentist", "Porto Alegre", nil)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, "Sunrise Dental", leads[0].Name)
	assert.Equal(t, "Dentist", leads[0].Industry, "industry falls back to niche")
	assert.Equal(t, "Porto Alegre", leads[0].Location, "location falls back to query")
	assert.Equal(t, model.WebsiteStatusOutdated, leads[0].Status)
	assert.Equal(t, "sunrise.example", leads[0].Website)
	assert.Equal(t, "Orthodontist", leads[1].Industry)
	assert.Empty(t, leads[1].CRMStatus)
}

func TestSearchLeads_CoordinatesReplaceLocation(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.Contains(req.Messages[0].Content, "near latitude -30.03000, longitude -51.23000")
	})).Return(reply(`[]`), nil)

	a := New(client, testConfig())
	leads, err := a.SearchLeads(context.Background(), "Bakery", "My current location", &model.Coordinates{Lat: -30.03, Lng: -51.23})
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestSearchLeads_LabelledPosition(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.Contains(req.Messages[0].Content, "near Rua Augusta, Lisboa (latitude 38.71000, longitude -9.14000)")
	})).Return(reply(`[{"name":"Padaria Augusta","status":"NO_WEBSITE","auditScore":15}]`), nil)

	a := New(client, testConfig())
	leads, err := a.SearchLeads(context.Background(), "Bakery", "My current location",
		&model.Coordinates{Lat: 38.71, Lng: -9.14, Label: "Rua Augusta, Lisboa"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Rua Augusta, Lisboa", leads[0].Location, "resolved address replaces the placeholder")
}

func TestSearchLeads_GroundedInPlaces(t *testing.T) {
	places := googlemocks.NewMockClient(t)
	places.On("TextSearch", mock.Anything, mock.MatchedBy(func(req google.TextSearchRequest) bool {
		return req.TextQuery == "Bakery" &&
			req.LocationBias != nil &&
			req.LocationBias.Circle.Radius == 5000 &&
			req.MaxResultCount == 5
	})).Return(&google.TextSearchResponse{Places: []google.Place{{
		DisplayName:      google.DisplayName{Text: "Pão Quente"},
		FormattedAddress: "Rua A, 10",
		Rating:           4.5,
		UserRatingCount:  120,
	}}}, nil)

	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		p := req.Messages[0].Content
		return strings.Contains(p, "1. Pão Quente | address: Rua A, 10 | website: none") &&
			strings.Contains(p, "rating: 4.5 (120 reviews)")
	})).Return(reply(`[{"name":"Pão Quente","status":"NO_WEBSITE","auditScore":5}]`), nil)

	a := New(client, testConfig(), WithPlaces(places))
	leads, err := a.SearchLeads(context.Background(), "Bakery", "My current location", &model.Coordinates{Lat: 1, Lng: 2})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Pão Quente", leads[0].Name)
}

func TestSearchLeads_PlacesFailureFallsBack(t *testing.T) {
	places := googlemocks.NewMockClient(t)
	places.On("TextSearch", mock.Anything, mock.MatchedBy(func(req google.TextSearchRequest) bool {
		return req.TextQuery == "Bakery in Lisbon" && req.LocationBias == nil
	})).Return(nil, errors.New("quota"))

	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.Contains(req.Messages[0].Content, noGrounding)
	})).Return(reply(`[]`), nil)

	a := New(client, testConfig(), WithPlaces(places))
	_, err := a.SearchLeads(context.Background(), "Bakery", "Lisbon", nil)
	require.NoError(t, err)
}

func TestSearchLeads_SchemaViolation(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(reply(`[{"industry":"Dentist"}]`), nil)

	a := New(client, testConfig())
	_, err := a.SearchLeads(context.Background(), "Dentist", "Porto Alegre", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestSearchLeads_BackendError(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

	a := New(client, testConfig())
	_, err := a.SearchLeads(context.Background(), "Dentist", "Porto Alegre", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assistant: search_leads")
}

func TestAnalyzeLead(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.Contains(req.Messages[0].Content, `"name": "Sunrise Dental"`)
	})).Return(reply("  Weak mobile site.  "), nil)

	a := New(client, testConfig())
	got, err := a.AnalyzeLead(context.Background(), sampleLead())
	require.NoError(t, err)
	assert.Equal(t, "Weak mobile site.", got)
}

func TestAnalyzeLead_EmptyReply(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(reply("   "), nil)

	a := New(client, testConfig())
	_, err := a.AnalyzeLead(context.Background(), sampleLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestResearchCompetitors(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(reply(
		`[{"name":"Bright Smiles","website":"bright.example","advantage":"Online booking"}]`), nil)

	a := New(client, testConfig())
	got, err := a.ResearchCompetitors(context.Background(), sampleLead())
	require.NoError(t, err)
	assert.Equal(t, []model.Competitor{{Name: "Bright Smiles", Website: "bright.example", Advantage: "Online booking"}}, got)
}

func TestResearchCompetitors_NotJSON(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(reply("I could not find any."), nil)

	a := New(client, testConfig())
	_, err := a.ResearchCompetitors(context.Background(), sampleLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

func TestDraftEmails(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-haiku-4-5-20251001" &&
			strings.Contains(req.Messages[0].Content, "Weak mobile site.")
	})).Return(reply(`{"direct":"Hi, ","story":"Last year...","urgent":"Every week...","extra":"ignored"}`), nil)

	a := New(client, testConfig())
	got, err := a.DraftEmails(context.Background(), sampleLead(), "Weak mobile site.")
	require.NoError(t, err)
	assert.Equal(t, model.EmailDrafts{
		model.EmailApproachDirect: "Hi,",
		model.EmailApproachStory:  "Last year...",
		model.EmailApproachUrgent: "Every week...",
	}, got)
}

func TestDraftEmails_MissingApproach(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(reply(`{"direct":"Hi"}`), nil)

	a := New(client, testConfig())
	_, err := a.DraftEmails(context.Background(), sampleLead(), "analysis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assistant: draft emails")
}

func TestRateLimitHonorsContext(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	cfg := testConfig()
	cfg.RateLimit = 0.001

	a := New(client, cfg)
	// Drain the single burst token.
	require.True(t, a.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.AnalyzeLead(ctx, sampleLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"plain array", `[1,2]`, `[1,2]`},
		{"json fence", "```json\n[1]\n```", `[1]`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Sure! [{\"a\":1}] Hope that helps.", `[{"a":1}]`},
		{"object containing array", `{"a":[1]}`, `{"a":[1]}`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
