package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validation modes, one per command family.
const (
	ModeSearch          = "search"
	ModeChat            = "chat"
	ModeLeads           = "leads"
	ModeServe           = "serve"
	ModePushNotion      = "push:notion"
	ModePushSalesforce  = "push:salesforce"
	ModePushSpreadsheet = "push:xlsx"
)

// Validate reports every setting the given mode requires but lacks.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Store.Driver {
	case "sqlite", "postgres", "redis":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		errs = append(errs, "store.driver must be one of sqlite, postgres, redis")
	}

	needAI := func() {
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
		if c.Anthropic.MaxTokens <= 0 {
			errs = append(errs, "anthropic.max_tokens must be > 0")
		}
	}

	switch mode {
	case ModeSearch, ModeChat:
		needAI()
	case ModeServe:
		needAI()
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case ModeLeads, ModePushSpreadsheet:
	case ModePushNotion:
		if c.Notion.Token == "" {
			errs = append(errs, "notion.token is required")
		}
		if c.Notion.LeadDB == "" {
			errs = append(errs, "notion.lead_db is required")
		}
	case ModePushSalesforce:
		if c.Salesforce.ClientID == "" {
			errs = append(errs, "salesforce.client_id is required")
		}
		if c.Salesforce.Username == "" {
			errs = append(errs, "salesforce.username is required")
		}
		if c.Salesforce.KeyPath == "" {
			errs = append(errs, "salesforce.key_path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Dashboard.AverageDealSize < 0 {
		errs = append(errs, "dashboard.average_deal_size must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
