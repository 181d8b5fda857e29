package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/chat"
	"github.com/sells-group/prospector-cli/internal/leadstore"
	"github.com/sells-group/prospector-cli/internal/store"
)

// newTestController builds a controller over a temp SQLite store.
func newTestController(t *testing.T, responder chat.Responder) *app.Controller {
	t.Helper()
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))

	d := app.Deps{Leads: leadstore.Open(ctx, st)}
	if responder != nil {
		d.NewResponder = func() chat.Responder { return responder }
	}
	return app.New(d)
}

type echoResponder struct{}

func (echoResponder) ChatWithAI(_ context.Context, text string) (string, error) {
	return "echo: " + text, nil
}
