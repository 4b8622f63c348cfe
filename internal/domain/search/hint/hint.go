// Package hint explains an empty search result.
package hint

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/budget"
	"github.com/kailas-cloud/tripfinder/internal/domain/trip"
)

// Conflicting is the hint for queries mixing vibes no single item offers.
const Conflicting = "Your request combines things that don't overlap in our collection. " +
	"Try focusing on one vibe or activity."

type conflict struct {
	left, right []string
}

// conflicts are mutually exclusive keyword groups, matched as substrings.
var conflicts = []conflict{
	{
		left:  []string{"beach", "surf", "coast", "ocean"},
		right: []string{"cold", "mountain", "snow", "highland"},
	},
	{
		left:  []string{"city", "urban", "nightlife"},
		right: []string{"remote", "wilderness", "secluded"},
	},
	{
		left:  []string{"relax", "spa", "chill"},
		right: []string{"adrenaline", "extreme", "intense"},
	},
}

// Synthesize picks a hint for an empty result. Returns "" when no rule fires.
func Synthesize(inv *inventory.Inventory, c budget.Constraint, query string) string {
	if ceiling, ok := c.Ceiling(); ok {
		n := inv.Count(func(it trip.Item) bool { return it.Price <= ceiling })
		if n == 0 {
			return fmt.Sprintf(
				"No experiences fit a $%d budget. Our most affordable option starts at $%d. Try increasing your budget.",
				ceiling, inv.Cheapest(),
			)
		}
		return fmt.Sprintf(
			"We have %s within $%d, but none matched what you described. Try broadening your interests.",
			experiences(n, ""), ceiling,
		)
	}

	if floor, ok := c.Floor(); ok {
		n := inv.Count(func(it trip.Item) bool { return it.Price >= floor })
		if n == 0 {
			return fmt.Sprintf(
				"No experiences are priced at $%d or more. Our most premium option is $%d. Try lowering your budget.",
				floor, inv.Priciest(),
			)
		}
		return fmt.Sprintf(
			"We have %s from $%d, but none matched what you described. Try broadening your interests.",
			experiences(n, "premium "), floor,
		)
	}

	if HasConflict(query) {
		return Conflicting
	}
	return ""
}

// HasConflict reports whether query names both sides of any conflict pair.
func HasConflict(query string) bool {
	q := strings.ToLower(query)
	for _, c := range conflicts {
		if containsAny(q, c.left) && containsAny(q, c.right) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func experiences(n int, adjective string) string {
	if n == 1 {
		return fmt.Sprintf("1 %sexperience", adjective)
	}
	return fmt.Sprintf("%d %sexperiences", n, adjective)
}
