// Package validation checks incoming publish requests against a JSON schema
// before any rendering or remote work starts.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// publishRequestSchema mirrors models.PublishRequest. Preconditions the
// workflow does not own (non-empty caption, at least one slide, an account
// id) are enforced here, at the service edge.
const publishRequestSchema = `{
  "type": "object",
  "required": ["account", "caption", "slides"],
  "additionalProperties": false,
  "properties": {
    "account": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "accessToken": {"type": "string"},
        "displayName": {"type": "string"},
        "handle": {"type": "string"}
      }
    },
    "caption": {"type": "string", "minLength": 1, "maxLength": 2200},
    "slides": {
      "type": "array",
      "minItems": 1,
      "maxItems": 10,
      "items": {
        "type": "object",
        "properties": {
          "ordinal": {"type": "integer", "minimum": 0},
          "title": {"type": "string"},
          "body": {"type": "string"},
          "imagePrompt": {"type": "string"},
          "accentColor": {"type": "string"}
        }
      }
    }
  }
}`

var compiledPublishRequestSchema = gojsonschema.NewStringLoader(publishRequestSchema)

// ValidatePublishRequest validates a raw request body. A nil error means the
// body is structurally valid; otherwise the error lists every violation.
func ValidatePublishRequest(body []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(compiledPublishRequestSchema, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("request validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
