// Package search holds the query grooming primitives shared by the client
// and document search paths: query normalization, company-key derivation and
// LLM-backed query expansion.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var quoteRunes = map[rune]bool{
	'"': true, '«': true, '»': true,
	'“': true, '”': true, '„': true, '‟': true,
	'‘': true, '’': true, '‹': true, '›': true,
}

// Normalize sanitizes raw user query text into a canonical token string:
// surrogate/private-use/unassigned runes are dropped, control and format
// runes become spaces, quote variants become spaces, the text is
// NFD-decomposed with combining marks stripped, lowercased, every rune that
// is not a letter or digit becomes a space, and whitespace runs collapse to
// a single space. Normalize is idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case unicode.Is(unicode.Cs, r) || unicode.Is(unicode.Co, r):
			// Surrogate fragments and private-use runes carry no
			// searchable meaning.
		case !unicode.IsGraphic(r) && !unicode.IsControl(r) && !unicode.Is(unicode.Cf, r):
			// Unassigned code points.
		case unicode.IsControl(r) || unicode.Is(unicode.Cf, r):
			b.WriteRune(' ')
		case quoteRunes[r]:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	decomposed := norm.NFD.String(b.String())

	var out strings.Builder
	out.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.M, r) {
			continue
		}
		r = unicode.ToLower(r)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			r = ' '
		}
		out.WriteRune(r)
	}

	return strings.Join(strings.Fields(out.String()), " ")
}

// RemoveSpaces strips every space from an already-normalized query, turning
// it into a single fuzzy-match candidate.
func RemoveSpaces(query string) string {
	return strings.ReplaceAll(query, " ", "")
}

// CollectTerms appends the non-blank entries of src to terms, preserving
// first-seen order and skipping duplicates already present in seen.
func CollectTerms(src []string, seen map[string]bool, terms *[]string) {
	for _, t := range src {
		if strings.TrimSpace(t) == "" || seen[t] {
			continue
		}
		seen[t] = true
		*terms = append(*terms, t)
	}
}
