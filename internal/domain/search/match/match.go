package match

// Response limits.
const (
	MaxMatches      = 5
	MaxReasonLength = 200
)

// Match is one recommended item with a short justification.
type Match struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// Response is the search result returned to clients.
// Matches is never nil so it always serializes as a JSON array.
type Response struct {
	Matches []Match `json:"matches"`
	Hint    string  `json:"hint,omitempty"`
}

// NewResponse builds a response, capping matches at MaxMatches.
func NewResponse(matches []Match, hint string) Response {
	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	out := make([]Match, len(matches))
	copy(out, matches)
	if len(out) > 0 {
		hint = ""
	}
	return Response{Matches: out, Hint: hint}
}

// IsEmpty reports whether no item matched.
func (r Response) IsEmpty() bool { return len(r.Matches) == 0 }
