package model

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// documentJSONSchema describes the persisted document format. It checks
// shape only; node vocabulary and content rules are Schema.Validate's job.
const documentJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["type", "content"],
  "properties": {
    "type": {"const": "doc"},
    "content": {"type": "array", "items": {"$ref": "#/definitions/node"}}
  },
  "definitions": {
    "mark": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "attrs": {"type": "object"}
      }
    },
    "node": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "attrs": {"type": "object"},
        "text": {"type": "string"},
        "marks": {"type": "array", "items": {"$ref": "#/definitions/mark"}},
        "content": {"type": "array", "items": {"$ref": "#/definitions/node"}}
      }
    }
  }
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentJSONSchema)

// ValidateJSON checks raw JSON against the persisted document format
// before it is decoded.
func ValidateJSON(raw []byte) error {
	res, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if res.Valid() {
		return nil
	}
	issues := make([]Issue, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		field := e.Field()
		if field == "(root)" {
			field = ""
		}
		issues = append(issues, Issue{Path: field, Reason: e.Description()})
	}
	return &ValidationError{Issues: issues}
}
