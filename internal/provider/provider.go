// Package provider holds the errors shared by question providers.
package provider

import "errors"

var (
	// ErrUnavailable marks transport, status and storage failures.
	ErrUnavailable = errors.New("question provider unavailable")
	// ErrMalformed marks responses that could not be decoded or validated.
	ErrMalformed = errors.New("malformed question provider response")
	// ErrNoResults is returned when the provider has no questions for the query.
	ErrNoResults = errors.New("no questions for query")
)

// Query narrows down the questions requested from a provider.
// Empty fields mean any value.
type Query struct {
	Amount     int
	Category   int
	Difficulty string
	Type       string
}
