package inventory

import "github.com/kailas-cloud/tripfinder/internal/domain/trip"

var defaultItems = []trip.Item{
	{
		ID:       1,
		Title:    "Sunrise Surf Camp",
		Location: "Canggu, Bali",
		Price:    80,
		Tags:     []trip.Tag{trip.Beach, trip.Surfing, trip.YoungVibe},
	},
	{
		ID:       2,
		Title:    "Temples and Tea Ceremony Walk",
		Location: "Kyoto, Japan",
		Price:    120,
		Tags:     []trip.Tag{trip.Culture, trip.History, trip.Food},
	},
	{
		ID:       3,
		Title:    "Glacier Trek and Mountain Hut Stay",
		Location: "El Chaltén, Patagonia",
		Price:    250,
		Tags:     []trip.Tag{trip.Hiking, trip.Mountains, trip.Cold, trip.Nature, trip.Adventure},
	},
	{
		ID:       4,
		Title:    "Big Five Safari Day",
		Location: "Maasai Mara, Kenya",
		Price:    300,
		Tags:     []trip.Tag{trip.Wildlife, trip.Nature, trip.Photography, trip.Adventure},
	},
	{
		ID:       5,
		Title:    "Old Town Food and Fado Evening",
		Location: "Lisbon, Portugal",
		Price:    45,
		Tags:     []trip.Tag{trip.Food, trip.Culture, trip.City},
	},
}

// Default returns the built-in five item catalog.
func Default() *Inventory {
	return MustNew(defaultItems)
}
