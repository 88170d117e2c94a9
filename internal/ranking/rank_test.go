package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/ask-my-resume/internal/keyphrase"
	"github.com/spigell/ask-my-resume/internal/resume"
)

type doc struct {
	id   string
	text string
}

func (d doc) Fields() []string { return []string{d.id, d.text} }

func ids[E Document](ranked []Ranked[E], id func(E) string) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, id(r.Entry))
	}
	return out
}

func docID(d doc) string { return d.id }

func TestRankStableOnTies(t *testing.T) {
	entries := []doc{
		{id: "A", text: "go kafka"},
		{id: "B", text: "go kafka"},
		{id: "C", text: "go kafka postgres redis grpc"},
	}
	ks := keyphrase.NewSet("go", "kafka", "postgres", "redis", "grpc")

	ranked := Rank(entries, ks)

	assert.Equal(t, []string{"C", "A", "B"}, ids(ranked, docID))
	assert.Equal(t, 5, ranked[0].Score)
	assert.Equal(t, 2, ranked[1].Score)
	assert.Equal(t, 2, ranked[2].Score)
}

func TestRankEmptyKeyphrasesKeepsOrder(t *testing.T) {
	entries := []doc{{id: "x1", text: "rust"}, {id: "x2", text: "go"}, {id: "x3", text: "zig"}}

	ranked := Rank(entries, keyphrase.Set{})

	assert.Equal(t, []string{"x1", "x2", "x3"}, ids(ranked, docID))
	for _, r := range ranked {
		assert.Zero(t, r.Score)
		assert.Empty(t, r.Matched)
	}
}

func TestRankEmptyEntries(t *testing.T) {
	ranked := Rank([]doc{}, keyphrase.NewSet("go"))
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)

	ranked = Rank[doc](nil, keyphrase.NewSet("go"))
	assert.Empty(t, ranked)
}

func TestRankIsPermutationAndDoesNotMutateInput(t *testing.T) {
	entries := []doc{
		{id: "a", text: "terraform aws"},
		{id: "b", text: "kubernetes helm go"},
		{id: "c", text: "nothing relevant"},
		{id: "d", text: "go"},
	}
	original := append([]doc(nil), entries...)
	ks := keyphrase.NewSet("go", "kubernetes", "aws")

	ranked := Rank(entries, ks)

	assert.Equal(t, original, entries)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, ids(ranked, docID))
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids(ranked, docID))
}

func TestRankDeterministic(t *testing.T) {
	entries := []doc{{id: "1", text: "python ml"}, {id: "2", text: "python"}, {id: "3", text: "ml"}}
	ks := keyphrase.NewSet("python", "ml")

	assert.Equal(t, Rank(entries, ks), Rank(entries, ks))
}

func TestRankMoreDistinctMatchesNeverScoreLower(t *testing.T) {
	ks := keyphrase.NewSet("go", "grpc", "postgres")
	fewer := doc{id: "f", text: "go go go go"}
	more := doc{id: "m", text: "go grpc"}

	ranked := Rank([]doc{fewer, more}, ks)

	assert.Equal(t, "m", ranked[0].Entry.id)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
}

func TestMatchRespectsTokenBoundaries(t *testing.T) {
	d := doc{id: "Google", text: "Worked on Node.js and C++ services; machine learning infra"}

	got := Match(d, []string{"go", "node.js", "c++", "machine learning", "learning infra", "google"})

	assert.Equal(t, []string{"node.js", "c++", "machine learning", "learning infra", "google"}, got)
}

func TestMatchSingleLetterLanguage(t *testing.T) {
	firmware := doc{id: "fw", text: "embedded C firmware"}
	cpp := doc{id: "svc", text: "C++ services"}

	assert.Equal(t, []string{"c"}, Match(firmware, []string{"c"}))
	assert.Empty(t, Match(cpp, []string{"c"}))

	ranked := Rank([]doc{cpp, firmware}, keyphrase.Extract("Does she know C?", keyphrase.Set{}))
	assert.Equal(t, "fw", ranked[0].Entry.id)
	assert.Equal(t, 1, ranked[0].Score)
}

func TestMatchDoesNotCrossFields(t *testing.T) {
	d := doc{id: "acme", text: "platform"}

	assert.Empty(t, Match(d, []string{"acme platform"}))
	assert.Equal(t, []string{"acme"}, Match(d, []string{"acme"}))
}

func TestTop(t *testing.T) {
	ranked := Rank([]doc{{id: "1"}, {id: "2"}, {id: "3"}, {id: "4"}}, keyphrase.Set{})

	top := Top(ranked, 3)
	assert.Equal(t, []string{"1", "2", "3"}, ids(top, docID))

	top[0].Score = 100
	assert.Zero(t, ranked[0].Score, "Top returns a copy")

	assert.Len(t, Top(ranked, 10), 4)
	assert.Empty(t, Top(ranked, 0))
}

func TestRankResumeEntries(t *testing.T) {
	projects := []resume.Project{
		{Title: "Chess Engine", Organization: "Personal", Description: "Bitboards in Rust"},
		{Title: "Ask My Resume", Organization: "Personal", Description: "Chat bot written in Go with Gemini"},
	}
	ks := keyphrase.Extract("Does he know Go and Gemini?", keyphrase.Set{})

	ranked := Rank(projects, ks)

	require.Len(t, ranked, 2)
	assert.Equal(t, "Ask My Resume", ranked[0].Entry.Title)
	assert.Equal(t, []string{"gemini", "go"}, ranked[0].Matched)
}
