// Package shortcut answers single-keyword queries straight from the inventory.
package shortcut

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/tripfinder/internal/domain/inventory"
	"github.com/kailas-cloud/tripfinder/internal/domain/search/match"
	"github.com/kailas-cloud/tripfinder/internal/domain/trip"
)

// keywords maps a whole normalized query to the tags it selects.
var keywords = map[string][]trip.Tag{
	"beach":       {trip.Beach},
	"beaches":     {trip.Beach},
	"surf":        {trip.Surfing},
	"surfing":     {trip.Surfing},
	"young":       {trip.YoungVibe},
	"young-vibe":  {trip.YoungVibe},
	"culture":     {trip.Culture},
	"cultural":    {trip.Culture},
	"history":     {trip.History},
	"historic":    {trip.History},
	"food":        {trip.Food},
	"foodie":      {trip.Food},
	"city":        {trip.City},
	"cities":      {trip.City},
	"hiking":      {trip.Hiking},
	"hike":        {trip.Hiking},
	"mountains":   {trip.Mountains},
	"mountain":    {trip.Mountains},
	"cold":        {trip.Cold},
	"nature":      {trip.Nature},
	"wildlife":    {trip.Wildlife},
	"safari":      {trip.Wildlife},
	"animals":     {trip.Wildlife},
	"photography": {trip.Photography},
	"relaxation":  {trip.Relaxation},
	"relaxing":    {trip.Relaxation},
	"adventure":   {trip.Adventure},
	"outdoors":    {trip.Hiking, trip.Nature, trip.Wildlife},
}

func tagsFor(keyword string) ([]trip.Tag, bool) {
	tags, ok := keywords[keyword]
	return tags, ok
}

// Match returns inventory matches when normalized is exactly a known keyword.
// Items with more overlapping tags come first; ties keep inventory order.
func Match(inv *inventory.Inventory, normalized string) ([]match.Match, bool) {
	wanted, ok := tagsFor(normalized)
	if !ok {
		return nil, false
	}

	type hit struct {
		match   match.Match
		overlap int
	}
	var hits []hit
	for _, it := range inv.Items() {
		matched := overlap(it, wanted)
		if len(matched) == 0 {
			continue
		}
		hits = append(hits, hit{
			match:   match.Match{ID: it.ID, Reason: reason(matched)},
			overlap: len(matched),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].overlap > hits[j].overlap })

	out := make([]match.Match, 0, len(hits))
	for _, h := range hits {
		if len(out) == match.MaxMatches {
			break
		}
		out = append(out, h.match)
	}
	return out, true
}

// overlap lists the wanted tags the item carries, in the item's tag order.
func overlap(it trip.Item, wanted []trip.Tag) []trip.Tag {
	var out []trip.Tag
	for _, t := range it.Tags {
		for _, w := range wanted {
			if t == w {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

func reason(tags []trip.Tag) string {
	if len(tags) == 1 {
		return fmt.Sprintf("Matched '%s' tag.", tags[0])
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = "'" + string(t) + "'"
	}
	return fmt.Sprintf("Matched %s tags.", strings.Join(quoted, ", "))
}
