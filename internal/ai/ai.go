// Package ai talks to a hosted generative model for text and
// schema-constrained JSON completions.
package ai

import (
	"context"
	"errors"
	"sort"
)

// ErrDisabled is returned by Disabled, and by NewClient when no key is set.
var ErrDisabled = errors.New("ai: gateway disabled")

// ErrEmptyResponse is returned when the model produced no candidate text.
var ErrEmptyResponse = errors.New("ai: empty response")

// Gateway is the two capability calls the assistant relies on.
type Gateway interface {
	CompleteText(ctx context.Context, prompt string) (string, error)
	// CompleteJSON asks for a value matching schema and decodes it into out.
	CompleteJSON(ctx context.Context, prompt string, schema Schema, out any) error
}

// Schema is the subset of OpenAPI schema objects accepted as responseSchema.
// Type uses the Gemini spelling (OBJECT, STRING, ARRAY).
type Schema struct {
	Type       string            `json:"type"`
	Properties map[string]Schema `json:"properties,omitempty"`
	Items      *Schema           `json:"items,omitempty"`
	Required   []string          `json:"required,omitempty"`
}

// Object describes an object whose listed properties are all required.
func Object(props map[string]Schema) Schema {
	req := make([]string, 0, len(props))
	for k := range props {
		req = append(req, k)
	}
	sort.Strings(req)
	return Schema{Type: "OBJECT", Properties: props, Required: req}
}

// String and StringArray are the leaf shapes the assistant needs.
func String() Schema { return Schema{Type: "STRING"} }

func StringArray() Schema {
	item := String()
	return Schema{Type: "ARRAY", Items: &item}
}

// Disabled fails every call with ErrDisabled.
type Disabled struct{}

func (Disabled) CompleteText(context.Context, string) (string, error) { return "", ErrDisabled }

func (Disabled) CompleteJSON(context.Context, string, Schema, any) error { return ErrDisabled }
