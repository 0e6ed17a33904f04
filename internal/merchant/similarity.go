package merchant

// Similarity computes the bigram Dice coefficient between two strings.
// The metric is symmetric, returns 1.0 for identical inputs (including two
// empty strings), and degrades gracefully: when exactly one input is empty
// the result is 0. Single-character inputs fall back to direct equality.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if len(a) < 2 || len(b) < 2 {
		return 0.0
	}

	bigramsA := bigrams(a)
	bigramsB := bigrams(b)

	var intersection int
	for gram, count := range bigramsA {
		if other, ok := bigramsB[gram]; ok {
			intersection += min(count, other)
		}
	}

	totalA := len(a) - 1
	totalB := len(b) - 1
	return 2.0 * float64(intersection) / float64(totalA+totalB)
}

func bigrams(s string) map[string]int {
	grams := make(map[string]int, len(s))
	for i := 0; i+2 <= len(s); i++ {
		grams[s[i:i+2]]++
	}
	return grams
}
