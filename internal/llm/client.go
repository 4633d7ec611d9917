// Package llm contains the language-model boundary used for query expansion
// and document summarization. Implementations must either return a result or
// fail with an error within a bounded timeout; they never hang.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the boundary gives up after its retry and
// circuit-breaker policies.
var ErrUnavailable = errors.New("llm boundary unavailable")

// ExpansionResult is the structured response of a query expansion request.
type ExpansionResult struct {
	Synonyms []string `json:"synonyms"`
	Related  []string `json:"related"`
	Narrower []string `json:"narrower"`
}

// Client is the generation boundary consumed by the search and summary flows.
type Client interface {
	// ExpandQuery asks the model for synonyms, related and narrower terms
	// for the given normalized query.
	ExpandQuery(ctx context.Context, query string) (*ExpansionResult, error)

	// Summarize produces a short plain-text summary of the content.
	Summarize(ctx context.Context, content string) (string, error)
}
