// Package keyphrase extracts normalized topic phrases from chat prompts and
// accumulates them across a conversation.
package keyphrase

import (
	"encoding/json"
	"slices"
	"strings"
	"unicode"
)

// Set is an unordered collection of normalized keyphrases.
// The zero value is an empty set ready to use for reads.
type Set struct {
	items map[string]struct{}
}

// NewSet builds a set from raw phrases, normalizing each one and skipping blanks.
func NewSet(phrases ...string) Set {
	s := Set{items: make(map[string]struct{}, len(phrases))}
	for _, p := range phrases {
		if n := Normalize(p); n != "" {
			s.items[n] = struct{}{}
		}
	}
	return s
}

func (s Set) Len() int { return len(s.items) }

func (s Set) Contains(phrase string) bool {
	_, ok := s.items[Normalize(phrase)]
	return ok
}

// Sorted returns the phrases in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for p := range s.items {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := Set{items: make(map[string]struct{}, len(s.items))}
	for p := range s.items {
		c.items[p] = struct{}{}
	}
	return c
}

// Union returns a new set holding the phrases of both sets.
func (s Set) Union(other Set) Set {
	u := s.Clone()
	for p := range other.items {
		u.items[p] = struct{}{}
	}
	return u
}

// MarshalJSON encodes the set as a sorted array so API output is stable.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON accepts an array of phrases and normalizes each one.
func (s *Set) UnmarshalJSON(data []byte) error {
	var phrases []string
	if err := json.Unmarshal(data, &phrases); err != nil {
		return err
	}
	*s = NewSet(phrases...)
	return nil
}

// Normalize case-folds a phrase and collapses its inner whitespace.
func Normalize(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// Extract derives keyphrases from prompt and returns them united with existing.
// The existing set is never modified. A blank prompt yields a copy of existing.
func Extract(prompt string, existing Set) Set {
	found := NewSet()

	prevContent := ""
	for _, tok := range Tokenize(prompt) {
		if isStopword(tok) {
			prevContent = ""
			continue
		}
		found.items[tok] = struct{}{}
		if prevContent != "" {
			found.items[prevContent+" "+tok] = struct{}{}
		}
		prevContent = tok
	}

	return existing.Union(found)
}

// Tokenize splits text into lowercase tokens. Letters and digits form tokens,
// and '+', '#', '.', '-' are kept inside them so that names like c++, c#,
// node.js and ci-cd survive. Leading and trailing '.' and '-' are dropped.
// Single runes are dropped unless they name a language, like c or r.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isTokenRune(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".-")
		f = strings.TrimLeft(f, "+#")
		if len([]rune(f)) < 2 && !isLetterName(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isTokenRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '+', '#', '.', '-':
		return true
	}
	return false
}

// letterNames are one-letter tokens that still name a technology.
var letterNames = map[string]struct{}{"c": {}, "r": {}}

func isLetterName(tok string) bool {
	_, ok := letterNames[tok]
	return ok
}
