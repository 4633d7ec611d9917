package model

// SearchHit pairs a matched entity with its relevance score.
// Fuzzy scores are within [0,1]; full-text relevance is unbounded above.
type SearchHit[T any] struct {
	Entity T       `json:"entity"`
	Score  float64 `json:"score"`
}

// SearchResult is one page of hits plus the total match count across all
// pages for the same filter.
type SearchResult[T any] struct {
	Results    []SearchHit[T] `json:"results"`
	TotalCount int64          `json:"total_count"`
}

// EmptySearchResult returns a result with no hits.
func EmptySearchResult[T any]() *SearchResult[T] {
	return &SearchResult[T]{Results: []SearchHit[T]{}}
}

const (
	// DefaultPageLimit is applied when no limit is requested.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size.
	MaxPageLimit = 100
)

// Pagination holds limit/offset paging parameters.
// Valid values are limit in [1,100] and offset >= 0.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Valid reports whether the parameters are within bounds.
func (p Pagination) Valid() bool {
	return p.Limit >= 1 && p.Limit <= MaxPageLimit && p.Offset >= 0
}

// DefaultPagination returns the first page with the default limit.
func DefaultPagination() Pagination {
	return Pagination{Limit: DefaultPageLimit, Offset: 0}
}
