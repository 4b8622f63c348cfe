// Package query validates and normalizes the free-text search input.
package query

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/tripfinder/internal/domain"
)

// MaxLength is the maximum trimmed query length in characters.
const MaxLength = 500

// User-facing validation messages.
const (
	MsgInvalidRequest = "Invalid request."
	MsgEmpty          = "Please describe the kind of trip you're looking for."
	MsgTooLong        = "Please keep your description to 500 characters or fewer."
)

type body struct {
	Query *string `json:"query"`
}

// Input is a query as received from a caller, before validation.
// A body that failed to decode still yields an Input so rate limiting runs ahead of rejection.
type Input struct {
	text string
	err  error
}

// FromText wraps an already extracted query string.
func FromText(q string) Input {
	return Input{text: q}
}

// Decode reads a JSON request body. Undecodable bodies and a missing or null
// query field produce an Input whose Validate reports MsgInvalidRequest.
func Decode(raw []byte) Input {
	var b body
	if err := json.Unmarshal(raw, &b); err != nil || b.Query == nil {
		return Input{err: domain.NewInputError(MsgInvalidRequest)}
	}
	return Input{text: *b.Query}
}

// Validate returns the trimmed query.
// Errors are *domain.InputError carrying one of the Msg* messages.
func (in Input) Validate() (string, error) {
	if in.err != nil {
		return "", in.err
	}
	return validate(in.text)
}

// validate trims q and checks its length.
func validate(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", domain.NewInputError(MsgEmpty)
	}
	if utf8.RuneCountInString(q) > MaxLength {
		return "", domain.NewInputError(MsgTooLong)
	}
	return q, nil
}

// Normalize lowercases and trims q. Used for cache keys and keyword lookup.
func Normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
