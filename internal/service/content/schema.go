package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"

	"servicehub/internal/domain"
)

var settingsSchemas = map[domain.ContentType]string{
	domain.ContentJobPosting: `{
		"type": "object",
		"required": ["employment_type"],
		"properties": {
			"employment_type": {"type": "string", "enum": ["full_time", "part_time", "contract", "temporary", "internship"]},
			"department": {"type": "string", "maxLength": 100},
			"location": {"type": "string", "maxLength": 200},
			"salary_range": {"type": "string", "maxLength": 100},
			"application_deadline": {"type": "string", "format": "date"},
			"apply_url": {"type": "string", "maxLength": 500}
		},
		"additionalProperties": false
	}`,
	domain.ContentBlog: `{
		"type": "object",
		"properties": {
			"reading_time": {"type": "integer", "minimum": 0},
			"featured": {"type": "boolean"}
		},
		"additionalProperties": false
	}`,
}

const anyObjectSchema = `{"type": "object"}`

// settingsValidator holds one compiled schema per content type.
type settingsValidator struct {
	schemas  map[domain.ContentType]*jsonschema.Schema
	fallback *jsonschema.Schema
}

func newSettingsValidator() (*settingsValidator, error) {
	v := &settingsValidator{schemas: make(map[domain.ContentType]*jsonschema.Schema)}
	for t, raw := range settingsSchemas {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(raw), rs); err != nil {
			return nil, fmt.Errorf("compile %s settings schema: %w", t, err)
		}
		v.schemas[t] = rs
	}

	v.fallback = &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(anyObjectSchema), v.fallback); err != nil {
		return nil, fmt.Errorf("compile settings schema: %w", err)
	}
	return v, nil
}

// Validate checks settings against the schema for t. Empty settings are treated as {}.
func (v *settingsValidator) Validate(ctx context.Context, t domain.ContentType, settings json.RawMessage) (json.RawMessage, error) {
	if len(settings) == 0 || string(settings) == "null" {
		settings = json.RawMessage("{}")
	}

	schema, ok := v.schemas[t]
	if !ok {
		schema = v.fallback
	}

	keyErrs, err := schema.ValidateBytes(ctx, settings)
	if err != nil {
		return nil, domain.NewValidationError("settings must be a valid JSON object")
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			if ke.PropertyPath != "" && ke.PropertyPath != "/" {
				msgs = append(msgs, fmt.Sprintf("%s: %s", ke.PropertyPath, ke.Message))
				continue
			}
			msgs = append(msgs, ke.Message)
		}
		return nil, domain.NewValidationError(fmt.Sprintf("invalid %s settings: %s", t, strings.Join(msgs, "; ")))
	}
	return settings, nil
}
