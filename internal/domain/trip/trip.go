package trip

// Tag is a label from the closed travel tag vocabulary.
type Tag string

// Supported tags.
const (
	Beach       Tag = "beach"
	Surfing     Tag = "surfing"
	YoungVibe   Tag = "young-vibe"
	Culture     Tag = "culture"
	History     Tag = "history"
	Food        Tag = "food"
	City        Tag = "city"
	Hiking      Tag = "hiking"
	Mountains   Tag = "mountains"
	Cold        Tag = "cold"
	Nature      Tag = "nature"
	Wildlife    Tag = "wildlife"
	Photography Tag = "photography"
	Relaxation  Tag = "relaxation"
	Adventure   Tag = "adventure"
)

var validTags = map[Tag]struct{}{
	Beach: {}, Surfing: {}, YoungVibe: {}, Culture: {}, History: {},
	Food: {}, City: {}, Hiking: {}, Mountains: {}, Cold: {},
	Nature: {}, Wildlife: {}, Photography: {}, Relaxation: {}, Adventure: {},
}

// IsValid checks if the tag belongs to the vocabulary.
func (t Tag) IsValid() bool {
	_, ok := validTags[t]
	return ok
}

// Item is a bookable travel experience.
type Item struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Price    int    `json:"price"`
	Tags     []Tag  `json:"tags"`
}

// HasTag reports whether the item carries tag t.
func (i Item) HasTag(t Tag) bool {
	for _, own := range i.Tags {
		if own == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate shared tag slices.
func (i Item) Clone() Item {
	c := i
	c.Tags = append([]Tag(nil), i.Tags...)
	return c
}
