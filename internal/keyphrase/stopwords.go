package keyphrase

// stopwords holds function words and chat filler that never carry a topic.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "all", "also", "am", "an", "and", "any", "are", "as", "at",
		"be", "been", "before", "being", "best", "between", "both", "but", "by",
		"can", "could", "describe", "detail", "details", "did", "do", "does", "doing", "done",
		"each", "else", "ever", "example", "examples", "explain",
		"few", "for", "from", "give", "had", "has", "have", "having", "he", "her", "here", "hers", "him", "his", "how",
		"if", "in", "into", "is", "it", "its", "just", "know", "least", "let", "like", "list",
		"many", "me", "more", "most", "much", "my", "no", "nor", "not", "now",
		"of", "off", "on", "once", "only", "or", "other", "our", "out", "over", "own",
		"please", "same", "she", "should", "show", "so", "some", "such",
		"tell", "than", "thanks", "that", "the", "their", "theirs", "them", "then", "there", "these", "they", "thing", "things", "this", "those", "through", "to", "too",
		"under", "until", "up", "us", "very", "was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why", "will", "with", "worked", "would",
		"you", "your", "yours",
	} {
		stopwords[w] = struct{}{}
	}
}

func isStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
