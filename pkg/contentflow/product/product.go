// Package product validates product records against the embedded JSON
// Schema and fills in defaults for the tolerant fields.
package product

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed product.schema.json
var schemaJSON string

// Defaults for tolerant fields that are absent or null.
const (
	DefaultConcentration = "Standard"
	DefaultSkinType      = "All Skin Types"
	DefaultHowToUse      = "Follow package instructions."
	DefaultSideEffects   = "None reported."
)

// RequiredFields lists the fields a record must carry.
var RequiredFields = []string{"product_name", "price"}

// Record is a validated product.
type Record struct {
	ProductName    string   `json:"product_name"`
	Price          string   `json:"price"`
	Concentration  string   `json:"concentration"`
	SkinType       string   `json:"skin_type"`
	KeyIngredients []string `json:"key_ingredients"`
	Benefits       []string `json:"benefits"`
	HowToUse       string   `json:"how_to_use"`
	SideEffects    string   `json:"side_effects"`
}

// Map returns the record as a generic map with JSON field names.
// Slices are converted to []any so the map round-trips through JSON
// unchanged.
func (r Record) Map() map[string]any {
	return map[string]any{
		"product_name":    r.ProductName,
		"price":           r.Price,
		"concentration":   r.Concentration,
		"skin_type":       r.SkinType,
		"key_ingredients": toAny(r.KeyIngredients),
		"benefits":        toAny(r.Benefits),
		"how_to_use":      r.HowToUse,
		"side_effects":    r.SideEffects,
	}
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// ValidationError reports why a record was rejected.
type ValidationError struct {
	MissingFields []string
	InvalidFields []string
	// Details holds the schema validator's messages.
	Details []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if len(e.MissingFields) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.MissingFields, ", "))
	}
	if len(e.InvalidFields) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.InvalidFields, ", "))
	}
	if len(parts) == 0 {
		return "product validation failed"
	}
	return "product validation failed: " + strings.Join(parts, "; ")
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return schema, schemaErr
}

// Validate checks data against the product schema.
//
// Required fields that are absent or null are reported as missing. Tolerant
// fields that are absent or null take their documented defaults. Fields
// outside the schema are dropped. The input map is not modified.
//
// A rejected record returns a *ValidationError.
func Validate(data map[string]any) (Record, error) {
	s, err := compiledSchema()
	if err != nil {
		return Record{}, fmt.Errorf("compile product schema: %w", err)
	}

	doc := make(map[string]any, len(data))
	for k, v := range data {
		// A null required field is reported as missing, not mistyped.
		if v == nil && slices.Contains(RequiredFields, k) {
			continue
		}
		doc[k] = v
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Record{}, &ValidationError{Details: []string{err.Error()}}
	}
	if !result.Valid() {
		return Record{}, newValidationError(result.Errors())
	}

	return decode(doc)
}

func newValidationError(errs []gojsonschema.ResultError) *ValidationError {
	ve := &ValidationError{}
	for _, e := range errs {
		ve.Details = append(ve.Details, e.String())
		if e.Type() == "required" {
			if prop, ok := e.Details()["property"].(string); ok && !slices.Contains(ve.MissingFields, prop) {
				ve.MissingFields = append(ve.MissingFields, prop)
			}
			continue
		}
		field := topLevelField(e.Field())
		if !slices.Contains(ve.InvalidFields, field) {
			ve.InvalidFields = append(ve.InvalidFields, field)
		}
	}
	slices.Sort(ve.MissingFields)
	slices.Sort(ve.InvalidFields)
	return ve
}

// topLevelField maps "key_ingredients.0" to "key_ingredients".
func topLevelField(field string) string {
	if i := strings.IndexByte(field, '.'); i >= 0 {
		return field[:i]
	}
	return field
}

func decode(doc map[string]any) (Record, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return Record{}, fmt.Errorf("encode product: %w", err)
	}

	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, fmt.Errorf("decode product: %w", err)
	}

	applyDefaults(&r)
	return r, nil
}

// applyDefaults fills empty tolerant fields. JSON null decodes to the
// zero value, so absent and null are handled alike.
func applyDefaults(r *Record) {
	if r.Concentration == "" {
		r.Concentration = DefaultConcentration
	}
	if r.SkinType == "" {
		r.SkinType = DefaultSkinType
	}
	if r.HowToUse == "" {
		r.HowToUse = DefaultHowToUse
	}
	if r.SideEffects == "" {
		r.SideEffects = DefaultSideEffects
	}
	if r.KeyIngredients == nil {
		r.KeyIngredients = []string{}
	}
	if r.Benefits == nil {
		r.Benefits = []string{}
	}
}
