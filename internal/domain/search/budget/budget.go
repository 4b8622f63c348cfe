// Package budget extracts price constraints from natural-language queries.
//
// The rule table is fixed and ordered: an explicit ceiling beats a qualitative
// one, and a floor is only considered when no ceiling was found.
package budget

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Qualitative thresholds in USD.
const (
	CheapCeiling = 60
	LuxuryFloor  = 200
)

var (
	ceilingBefore = regexp.MustCompile(`(?i)(under|below|less than|within|up to|max(imum)?)\s*\$?\s*(\d+)`)
	ceilingAfter  = regexp.MustCompile(`(?i)\$\s*(\d+)\s*(or less|or under|or below|max(imum)?)`)
	cheapWords    = regexp.MustCompile(`(?i)\b(cheap|budget|affordable|low-cost|inexpensive)\b`)
	luxuryWords   = regexp.MustCompile(`(?i)\b(expensive|luxury|luxurious|premium|high-end|splurge)\b`)
)

// Constraint is at most one of a price ceiling or a price floor.
type Constraint struct {
	ceiling    int
	hasCeiling bool
	floor      int
	hasFloor   bool
}

// Extract applies the ceiling rules, then the floor rule.
func Extract(q string) Constraint {
	if c, ok := extractCeiling(q); ok {
		return Constraint{ceiling: c, hasCeiling: true}
	}
	if f, ok := extractFloor(q); ok {
		return Constraint{floor: f, hasFloor: true}
	}
	return Constraint{}
}

func extractCeiling(q string) (int, bool) {
	if m := ceilingBefore.FindStringSubmatch(q); m != nil {
		return parseAmount(m[3]), true
	}
	if m := ceilingAfter.FindStringSubmatch(q); m != nil {
		return parseAmount(m[1]), true
	}
	if cheapWords.MatchString(q) {
		return CheapCeiling, true
	}
	return 0, false
}

// extractFloor does not consult the ceiling rules.
func extractFloor(q string) (int, bool) {
	if luxuryWords.MatchString(q) {
		return LuxuryFloor, true
	}
	return 0, false
}

// parseAmount reads a run of digits, saturating at math.MaxInt.
func parseAmount(digits string) int {
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	return n
}

// Ceiling returns the price ceiling, if any.
func (c Constraint) Ceiling() (int, bool) { return c.ceiling, c.hasCeiling }

// Floor returns the price floor, if any.
func (c Constraint) Floor() (int, bool) { return c.floor, c.hasFloor }

// IsZero reports whether no constraint was detected.
func (c Constraint) IsZero() bool { return !c.hasCeiling && !c.hasFloor }

// Allows reports whether price satisfies the constraint.
func (c Constraint) Allows(price int) bool {
	if c.hasCeiling && price > c.ceiling {
		return false
	}
	if c.hasFloor && price < c.floor {
		return false
	}
	return true
}

// Describe renders the constraint as a hard rule for the LLM prompt.
func (c Constraint) Describe() string {
	switch {
	case c.hasCeiling:
		return fmt.Sprintf("HARD BUDGET CONSTRAINT: only include experiences priced at $%d or less.", c.ceiling)
	case c.hasFloor:
		return fmt.Sprintf("HARD BUDGET CONSTRAINT: only include experiences priced at $%d or more.", c.floor)
	default:
		return ""
	}
}
