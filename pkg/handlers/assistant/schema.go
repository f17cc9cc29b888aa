package assistant

import (
	"fmt"

	"github.com/de-tools/blocks/pkg/apperrors"
	"github.com/xeipuuv/gojsonschema"
)

const maxPromptLength = 4000

var querySchema = mustSchema(fmt.Sprintf(`{
  "type": "object",
  "required": ["prompt"],
  "properties": {
    "prompt": {"type": "string", "minLength": 1, "maxLength": %d},
    "conversationId": {"type": "string", "maxLength": 128},
    "context": {
      "type": "object",
      "properties": {
        "recommendationId": {"type": "string"}
      }
    },
    "stream": {"type": "boolean"}
  }
}`, maxPromptLength))

func mustSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid query schema: %v", err))
	}
	return s
}

// validateBody checks a raw query body and reports the first violation as a
// validation error naming the offending field.
func validateBody(body []byte) error {
	result, err := querySchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperrors.Validation("body", "request body must be a JSON object", `Send {"prompt": "..."} with Content-Type application/json`)
	}
	if result.Valid() {
		return nil
	}

	desc := result.Errors()[0]
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			field = prop
		}
	}
	if field == "(root)" {
		field = "body"
	}

	switch {
	case field == "prompt" && (desc.Type() == "required" || desc.Type() == "string_gte"):
		return apperrors.Validation("prompt", "prompt is required", `Send a non-empty "prompt" string in the request body`)
	case field == "prompt" && desc.Type() == "string_lte":
		return apperrors.Validation("prompt", "prompt is too long", fmt.Sprintf("Keep the prompt under %d characters", maxPromptLength))
	}
	return apperrors.Validation(field, desc.Description(), "")
}
