package interpret

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// analysisSchema describes the reply expected from the analysis prompt.
// Only the parsed block is required; steps are optional and their result may
// be any JSON value.
const analysisSchema = `{
  "type": "object",
  "required": ["parsed"],
  "properties": {
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "step": {"type": "string"},
          "description": {"type": "string"},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1}
        }
      }
    },
    "parsed": {
      "type": "object",
      "properties": {
        "intent": {"type": ["string", "null"]},
        "products": {"type": ["array", "null"], "items": {"type": "string"}},
        "keywords": {"type": ["array", "null"], "items": {"type": "string"}},
        "severity": {"type": ["string", "null"]},
        "period": {"type": ["string", "null"]},
        "source": {"type": ["string", "null"]}
      }
    }
  }
}`

var analysisSchemaLoader = gojsonschema.NewStringLoader(analysisSchema)

// validateAnalysis checks raw against analysisSchema.
func validateAnalysis(raw string) error {
	result, err := gojsonschema.Validate(analysisSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidAnalysis, strings.Join(msgs, "; "))
}
