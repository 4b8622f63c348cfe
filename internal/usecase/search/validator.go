package search

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
)

// Validator checks raw LLM output against the match-list schema.
type Validator struct {
	inv      *inventory.Inventory
	resolved *jsonschema.Resolved
}

// NewValidator compiles the response schema with ids restricted to the inventory.
func NewValidator(inv *inventory.Inventory) (*Validator, error) {
	ids, err := json.Marshal(inv.IDs())
	if err != nil {
		return nil, fmt.Errorf("marshal ids: %w", err)
	}

	doc := fmt.Sprintf(`{
  "type": "object",
  "required": ["matches"],
  "properties": {
    "matches": {
      "type": "array",
      "maxItems": %d,
      "items": {
        "type": "object",
        "required": ["id", "reason"],
        "properties": {
          "id": {"type": "integer", "enum": %s},
          "reason": {"type": "string", "minLength": 1, "maxLength": %d}
        }
      }
    }
  }
}`, match.MaxMatches, ids, match.MaxReasonLength)

	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(doc), &schema); err != nil {
		return nil, fmt.Errorf("parse response schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve response schema: %w", err)
	}
	return &Validator{inv: inv, resolved: resolved}, nil
}

type rawMatch struct {
	ID     float64 `json:"id"`
	Reason string  `json:"reason"`
}

type rawResponse struct {
	Matches []rawMatch `json:"matches"`
}

// Validate parses raw, checks it against the schema and drops unknown ids.
// Failures are *domain.OutputError.
func (v *Validator) Validate(raw string) ([]match.Match, error) {
	var instance any
	if err := json.Unmarshal([]byte(raw), &instance); err != nil {
		return nil, &domain.OutputError{Reason: domain.ReasonNonJSON, Err: err}
	}

	if err := v.resolved.Validate(instance); err != nil {
		return nil, &domain.OutputError{Reason: domain.ReasonSchema, Err: err}
	}

	var parsed rawResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &domain.OutputError{Reason: domain.ReasonSchema, Err: err}
	}

	out := make([]match.Match, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		id := int(m.ID)
		if float64(id) != m.ID || !v.inv.Has(id) {
			continue
		}
		out = append(out, match.Match{ID: id, Reason: m.Reason})
	}
	return out, nil
}
