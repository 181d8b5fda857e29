// Package crmsync pushes the saved pipeline to an external CRM. Every sink
// upserts by lead name, matching the Lead Store's own identity rule.
package crmsync

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/model"
)

// Target names a push destination.
type Target string

const (
	TargetNotion      Target = "notion"
	TargetSalesforce  Target = "salesforce"
	TargetSpreadsheet Target = "xlsx"
)

// Targets lists the supported destinations.
var Targets = []Target{TargetNotion, TargetSalesforce, TargetSpreadsheet}

// ParseTarget validates a user-supplied destination.
func ParseTarget(v string) (Target, error) {
	t := Target(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range Targets {
		if t == known {
			return t, nil
		}
	}
	return "", eris.Errorf("crmsync: unknown target %q (want notion, salesforce or xlsx)", v)
}

// Result counts the outcome of one push.
type Result struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

func (r *Result) fail(name string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, name+": "+err.Error())
	zap.L().Warn("crmsync: lead push failed", zap.String("lead", name), zap.Error(err))
}

// Sink receives saved leads.
type Sink interface {
	Push(ctx context.Context, leads []model.BusinessLead) (Result, error)
}

// Push sends leads to sink, skipping search results that were never saved.
func Push(ctx context.Context, sink Sink, leads []model.BusinessLead) (Result, error) {
	saved := make([]model.BusinessLead, 0, len(leads))
	for _, l := range leads {
		if l.Saved() {
			saved = append(saved, l)
		}
	}
	if len(saved) == 0 {
		return Result{}, nil
	}

	res, err := sink.Push(ctx, saved)
	if err != nil {
		return res, err
	}
	zap.L().Info("crmsync: push complete",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
