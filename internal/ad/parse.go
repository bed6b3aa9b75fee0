package ad

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai/jsonschema"
)

const maxExcerpt = 200

var structuredSchema = mustSchema()

func mustSchema() *jsonschema.Definition {
	schema, err := jsonschema.GenerateSchemaForType(StructuredData{})
	if err != nil {
		panic(fmt.Sprintf("ad: generate schema: %v", err))
	}
	return schema
}

// Schema returns the JSON schema every StructuredData payload must satisfy.
// Callers must not modify the returned definition.
func Schema() *jsonschema.Definition {
	return structuredSchema
}

// ParseError reports model output that is not a StructuredData document.
type ParseError struct {
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse structured data: %v (raw: %q)", e.Err, e.Excerpt)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes raw model output into StructuredData. The payload is
// checked against Schema first, so missing keys or wrong types fail
// instead of leaving zero values behind.
func Parse(raw string) (StructuredData, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StructuredData{}, &ParseError{Err: fmt.Errorf("empty response")}
	}

	var data StructuredData
	if err := jsonschema.VerifySchemaAndUnmarshal(*structuredSchema, []byte(trimmed), &data); err != nil {
		return StructuredData{}, &ParseError{Excerpt: excerpt(trimmed), Err: err}
	}
	return data, nil
}

func excerpt(s string) string {
	if len(s) <= maxExcerpt {
		return s
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
