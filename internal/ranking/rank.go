// Package ranking orders résumé entries by how many conversation keyphrases they mention.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/spigell/ask-my-resume/internal/keyphrase"
)

// Document is anything with text fields a keyphrase can be found in.
type Document interface {
	Fields() []string
}

// Ranked pairs an entry with its relevance score.
type Ranked[E Document] struct {
	Entry   E        `json:"entry"`
	Score   int      `json:"score"`
	Matched []string `json:"matched,omitempty"`
}

// Rank scores every entry against the keyphrases and returns the full ordering,
// highest score first. Entries with equal scores keep their input order.
// The input slice is left untouched.
func Rank[E Document](entries []E, keyphrases keyphrase.Set) []Ranked[E] {
	ranked := make([]Ranked[E], 0, len(entries))
	phrases := keyphrases.Sorted()

	for _, entry := range entries {
		matched := Match(entry, phrases)
		ranked = append(ranked, Ranked[E]{
			Entry:   entry,
			Score:   len(matched),
			Matched: matched,
		})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked[E]) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return ranked
}

// Top returns at most n leading elements of an ordering.
func Top[E Document](ranked []Ranked[E], n int) []Ranked[E] {
	if n <= 0 {
		return []Ranked[E]{}
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return slices.Clone(ranked)
}

// Match returns the distinct phrases found in the document, in the order given.
// Matching is case-insensitive and respects token boundaries, so "go" does not
// match "google".
func Match(doc Document, phrases []string) []string {
	if len(phrases) == 0 {
		return nil
	}

	// Fields are joined with a separator no token can contain, so a two-word
	// phrase never matches across a field boundary.
	fields := doc.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, strings.Join(keyphrase.Tokenize(f), " "))
	}
	text := " " + strings.Join(parts, " | ") + " "

	var matched []string
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		norm := strings.Join(keyphrase.Tokenize(p), " ")
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		if strings.Contains(text, " "+norm+" ") {
			seen[norm] = struct{}{}
			matched = append(matched, p)
		}
	}

	return matched
}
