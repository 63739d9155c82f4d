package leads

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/outboundhq/dialer/pkg/apperror"
)

// defaultMetadataSchema constrains lead metadata to a JSON object (never a
// scalar or array) — loose enough for arbitrary CRM fields, strict enough
// to catch obviously malformed bulk-ingest payloads before they reach the
// Runtime.
var defaultMetadataSchema = &jsonschema.Schema{
	Type: "object",
}

// MetadataValidator validates lead metadata JSON against a schema. Build
// one with NewMetadataValidator or NewMetadataValidatorFromJSON; the zero
// value holds no schema and is not usable.
type MetadataValidator struct {
	resolved *jsonschema.Resolved
}

// NewMetadataValidator builds a validator from the default schema.
func NewMetadataValidator() (*MetadataValidator, error) {
	return newValidatorFromSchema(defaultMetadataSchema)
}

// NewMetadataValidatorFromJSON builds a validator from a caller-supplied
// JSON Schema document, letting a tenant tighten validation per campaign
// (e.g. requiring a "source" field).
func NewMetadataValidatorFromJSON(schemaJSON []byte) (*MetadataValidator, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("leads: invalid metadata schema: %w", err)
	}
	return newValidatorFromSchema(&schema)
}

func newValidatorFromSchema(schema *jsonschema.Schema) (*MetadataValidator, error) {
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return nil, fmt.Errorf("leads: resolving metadata schema: %w", err)
	}
	return &MetadataValidator{resolved: resolved}, nil
}

// Validate checks raw lead metadata against the schema. Empty/nil
// metadata is always accepted since metadata itself is optional.
func (v *MetadataValidator) Validate(_ context.Context, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return apperror.ErrValidation.WithMessage("metadata is not valid JSON").WithInternal(err)
	}
	if instance == nil {
		return nil
	}

	if err := v.resolved.Validate(instance); err != nil {
		return apperror.ErrValidation.
			WithMessage("lead metadata failed schema validation").
			WithDetails(map[string]any{"reason": err.Error()})
	}
	return nil
}
