package profilestore

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// profileSchema is the shape accepted by Import.
const profileSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["prices"],
  "properties": {
    "id":   {"type": "string", "pattern": "^[A-Za-z0-9_-]{1,64}$"},
    "name": {"type": "string"},
    "prices": {
      "type": "object",
      "additionalProperties": {"type": ["string", "number", "null"]}
    },
    "updatedAtUtc": {"type": "string"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(profileSchema)

// SchemaError lists every violation found in an imported profile.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "profile does not match schema: " + strings.Join(e.Violations, "; ")
}

// ValidateDocument checks raw JSON against the profile schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate profile: %w", err)
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return &SchemaError{Violations: violations}
}
