package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/tripfinder/internal/domain"
	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/budget"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
)

const rubric = `You match travelers to experiences from a fixed catalog.

Scoring:
- Strong match: the request names an activity, setting or vibe that is one of the item's tags.
- Partial match: the request names something closely related to an item's tags
  (surfing and beach, hiking and mountains, wildlife and photography, food and culture).
- No match: nothing in the request relates to the item. Leave it out.

Rules:
- Only use ids from the catalog below. Never invent items.
- Return at most %d matches, best first.
- Each reason is one sentence of at most %d characters explaining the fit in the traveler's terms.
- If nothing fits, return an empty matches array.
- Respond with JSON only, exactly in this shape: {"matches": [{"id": <number>, "reason": "<string>"}]}`

// catalog is the inventory rendered once as indented JSON.
func catalog(inv *inventory.Inventory) string {
	data, err := json.MarshalIndent(inv.Items(), "", "  ")
	if err != nil {
		// Items are plain structs; Marshal cannot fail.
		panic(fmt.Sprintf("marshal inventory: %v", err))
	}
	return string(data)
}

// buildSystemPrompt renders the instruction shared by every query.
func buildSystemPrompt(inv *inventory.Inventory) string {
	var b strings.Builder
	fmt.Fprintf(&b, rubric, match.MaxMatches, match.MaxReasonLength)
	b.WriteString("\n\nCatalog:\n")
	b.WriteString(catalog(inv))
	return b.String()
}

// BuildPrompt combines the system instruction, the detected budget rule and the query.
func BuildPrompt(system string, c budget.Constraint, q string) domain.Prompt {
	if !c.IsZero() {
		system += "\n\n" + c.Describe() + " Items outside this range must not appear in matches."
	}
	return domain.Prompt{System: system, User: q}
}
