package search

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/bogatovam/wealth-search-api/internal/config"
	"github.com/bogatovam/wealth-search-api/internal/llm"
)

// Expander broadens a normalized query into a set of full-text search terms
// using LLM-suggested synonyms, related and narrower terms. Results are kept
// in a bounded TTL cache; identical queries in flight collapse to a single
// LLM call. On any boundary failure the expander degrades to the literal
// query instead of failing the request, and nothing is cached.
type Expander struct {
	llm     llm.Client
	cache   *expirable.LRU[string, []string]
	group   singleflight.Group
	timeout time.Duration
}

// NewExpander builds an Expander with the configured cache bounds.
func NewExpander(client llm.Client, cfg config.ExpansionConfig, timeout time.Duration) *Expander {
	size := cfg.CacheSize
	if size < 1 {
		size = 1
	}
	ttl := time.Duration(cfg.CacheTTLMin) * time.Minute

	return &Expander{
		llm:     client,
		cache:   expirable.NewLRU[string, []string](size, nil, ttl),
		timeout: timeout,
	}
}

// Expand returns the search terms for the query, always including the query
// itself as the first term. It never returns an error: expansion failures
// fall back to {query}.
func (e *Expander) Expand(ctx context.Context, query string) []string {
	if terms, ok := e.cache.Get(query); ok {
		return terms
	}

	v, err, _ := e.group.Do(query, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the cache while this one waited.
		if terms, ok := e.cache.Get(query); ok {
			return terms, nil
		}

		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		result, err := e.llm.ExpandQuery(callCtx, query)
		if err != nil {
			return nil, err
		}

		terms := collectExpansionTerms(query, result)
		e.cache.Add(query, terms)
		return terms, nil
	})
	if err != nil {
		logExpansionFallback(query, err)
		return []string{query}
	}
	return v.([]string)
}

// collectExpansionTerms unions the query with the expansion lists, dropping
// blanks and duplicates while preserving order.
func collectExpansionTerms(query string, result *llm.ExpansionResult) []string {
	seen := map[string]bool{query: true}
	terms := []string{query}

	CollectTerms(result.Synonyms, seen, &terms)
	CollectTerms(result.Narrower, seen, &terms)
	CollectTerms(result.Related, seen, &terms)

	return terms
}

func logExpansionFallback(query string, err error) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": "warn",
		"msg":   "query_expansion_fallback",
		"query": query,
		"error": err.Error(),
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
