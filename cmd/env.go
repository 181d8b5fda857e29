package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/assistant"
	"github.com/sells-group/prospector-cli/internal/chat"
	"github.com/sells-group/prospector-cli/internal/config"
	"github.com/sells-group/prospector-cli/internal/dashboard"
	"github.com/sells-group/prospector-cli/internal/leadstore"
	"github.com/sells-group/prospector-cli/internal/locate"
	"github.com/sells-group/prospector-cli/internal/monitoring"
	"github.com/sells-group/prospector-cli/internal/store"
	anthropicpkg "github.com/sells-group/prospector-cli/pkg/anthropic"
	"github.com/sells-group/prospector-cli/pkg/geocode"
	"github.com/sells-group/prospector-cli/pkg/google"
)

// appEnv holds the store and controller shared by every command.
type appEnv struct {
	Store store.Store
	Leads *leadstore.Store
	Ctrl  *app.Controller
}

// Close releases the durable store.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the configured durable backend.
func initStore(ctx context.Context, c config.StoreConfig) (store.Store, error) {
	switch c.Driver {
	case "sqlite":
		return store.NewSQLite(c.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, c.DatabaseURL, nil)
	case "redis":
		return store.NewRedis(c.DatabaseURL, c.KeyPrefix)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Driver)
	}
}

// initAssistant builds the Claude-backed assistant. Places grounding is
// enabled when a key is configured.
func initAssistant(c *config.Config) *assistant.Assistant {
	opts := []anthropicpkg.ClientOption{anthropicpkg.WithMaxRetries(c.Anthropic.MaxRetries)}
	if c.Anthropic.BaseURL != "" {
		opts = append(opts, anthropicpkg.WithBaseURL(c.Anthropic.BaseURL))
	}
	if c.Anthropic.TimeoutSecs > 0 {
		opts = append(opts, anthropicpkg.WithTimeout(time.Duration(c.Anthropic.TimeoutSecs)*time.Second))
	}
	client := anthropicpkg.NewClient(c.Anthropic.Key, opts...)

	var asstOpts []assistant.Option
	if c.Google.PlacesKey != "" {
		asstOpts = append(asstOpts, assistant.WithPlaces(google.NewClient(c.Google.PlacesKey)))
		zap.L().Info("google places grounding enabled")
	} else {
		zap.L().Debug("PROSPECTOR_GOOGLE_PLACES_KEY not set, searches are not grounded")
	}

	return assistant.New(client, assistantConfig(c), asstOpts...)
}

// assistantConfig maps the configured models onto operations: drafting is
// short-form and runs on Haiku, everything else on Sonnet.
func assistantConfig(c *config.Config) assistant.Config {
	return assistant.Config{
		SearchModel:   c.Anthropic.SonnetModel,
		AnalysisModel: c.Anthropic.SonnetModel,
		DraftModel:    c.Anthropic.HaikuModel,
		ChatModel:     c.Anthropic.SonnetModel,
		MaxTokens:     c.Anthropic.MaxTokens,
		RateLimit:     c.Anthropic.RateLimit,
		RadiusMeters:  c.Google.RadiusMeters,
		MaxResults:    c.Google.MaxResults,

		BreakerThreshold: c.Anthropic.BreakerThreshold,
		BreakerCooldown:  time.Duration(c.Anthropic.BreakerCooldownSecs) * time.Second,
	}
}

// initLocator picks the device-location stand-in from config.
func initLocator(c config.LocationConfig) locate.Locator {
	var client geocode.Client
	if c.HomeAddress != "" {
		opts := []geocode.Option{geocode.WithRateLimit(1)}
		if c.GeocodeKey != "" {
			opts = append(opts, geocode.WithGoogleAPIKey(c.GeocodeKey))
		}
		client = geocode.NewClient(opts...)
	}
	return locate.New(locate.Config{Lat: c.Lat, Lng: c.Lng, HomeAddress: c.HomeAddress}, client)
}

// initApp validates cfg for mode, opens the Lead Store, and builds the
// controller. The AI backend is only wired when withAI is set.
func initApp(ctx context.Context, mode string, withAI bool, deps app.Deps) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	leads := leadstore.Open(ctx, st,
		leadstore.WithKey(cfg.Store.Key),
		leadstore.WithObserver(monitoring.ObserveLeads),
	)
	monitoring.ObserveLeads(leads.Leads())

	deps.Leads = leads
	deps.Locator = initLocator(cfg.Location)
	deps.Dashboard = dashboardConfig(cfg)
	if withAI {
		asst := initAssistant(cfg)
		deps.Backend = asst
		deps.NewResponder = func() chat.Responder { return asst.NewConversation() }
	}

	zap.L().Debug("app ready",
		zap.String("store", cfg.Store.Driver),
		zap.Int("saved_leads", len(leads.Leads())),
		zap.Bool("ai", withAI),
	)
	return &appEnv{Store: st, Leads: leads, Ctrl: app.New(deps)}, nil
}

func dashboardConfig(c *config.Config) dashboard.Config {
	return dashboard.Config{
		AverageDealSize: c.Dashboard.AverageDealSize,
		Currency:        c.Dashboard.Currency,
		Language:        c.Dashboard.Language,
	}
}
