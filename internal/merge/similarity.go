package merge

import "strings"

// Similarity computes a word-overlap Dice coefficient between two
// titles, in [0, 1]. Titles are lowercased and tokenized on
// whitespace; tokens of length <= 2 are dropped so articles and
// punctuation fragments do not inflate the score. An exact
// case-insensitive match short-circuits to 1.
func Similarity(a, b string) float64 {
	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))

	if s1 == s2 {
		return 1
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	words1 := tokenize(s1)
	words2 := tokenize(s2)

	overlap := 0
	for word := range words1 {
		if _, ok := words2[word]; ok {
			overlap++
		}
	}

	total := len(words1) + len(words2)
	if total == 0 {
		return 0
	}
	return float64(2*overlap) / float64(total)
}

func tokenize(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			words[w] = struct{}{}
		}
	}
	return words
}
