package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// MaxSuggestions is the number of follow-up prompts a reply may carry.
const MaxSuggestions = 3

const replySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["message", "suggestions"],
  "properties": {
    "message": {"type": "string", "minLength": 1},
    "suggestions": {
      "type": "array",
      "maxItems": 3,
      "items": {"type": "string"}
    }
  }
}`

var replySchemaLoader = gojsonschema.NewStringLoader(replySchema)

// ParseReply validates a raw model answer against the reply schema.
// Markdown code fences around the JSON are tolerated.
func ParseReply(raw string) (*Reply, error) {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	result, err := gojsonschema.Validate(replySchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(problems, "; "))
	}

	var reply Reply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	suggestions := make([]string, 0, len(reply.Suggestions))
	for _, s := range reply.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}

	reply.Message = strings.TrimSpace(reply.Message)
	if reply.Message == "" {
		return nil, fmt.Errorf("%w: blank message", ErrMalformedResponse)
	}
	reply.Suggestions = suggestions
	reply.Raw = raw

	return &reply, nil
}

// ExtractJSON strips surrounding whitespace and ```json fences.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
