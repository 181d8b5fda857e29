package assistant

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

var leadsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"industry":    map[string]any{"type": "string"},
			"location":    map[string]any{"type": "string"},
			"website":     map[string]any{"type": "string"},
			"contactInfo": map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"status":      map[string]any{"type": "string"},
			"auditScore":  map[string]any{"type": "integer"},
			"mapUrl":      map[string]any{"type": "string"},
		},
	},
}

var competitorsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name":      map[string]any{"type": "string"},
			"website":   map[string]any{"type": "string"},
			"advantage": map[string]any{"type": "string"},
		},
	},
}

var emailsSchema = map[string]any{
	"type":     "object",
	"required": []any{"direct", "story", "urgent"},
	"properties": map[string]any{
		"direct": map[string]any{"type": "string"},
		"story":  map[string]any{"type": "string"},
		"urgent": map[string]any{"type": "string"},
	},
}

// decode extracts the JSON payload from a model reply, validates it against
// schema and unmarshals it into out.
func decode(text string, schema map[string]any, out any) error {
	payload := cleanJSON(text)

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return eris.Wrap(err, "parse response")
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return eris.Wrap(err, "validate response")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return eris.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}

// cleanJSON strips markdown fences and surrounding prose from a reply,
// keeping the outermost JSON array or object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	open := strings.IndexAny(text, "[{")
	if open < 0 {
		return strings.TrimSpace(text)
	}
	closer := "}"
	if text[open] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(text, closer); end > open {
		text = text[open : end+1]
	}
	return strings.TrimSpace(text)
}
