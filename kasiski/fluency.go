package kasiski

// DefaultFluencyThreshold separates English-like letter distributions
// (around 0.066) from uniform noise (around 0.038).
const DefaultFluencyThreshold = 0.055

// CalculateFluency correlates the letter distribution of text with English.
// Text without letters scores 0.
func CalculateFluency(text string) float64 {
	counts, _ := countLetters(text)

	letters := 0
	for _, count := range counts {
		letters += count
	}

	return englishScorer.Correlation(counts, letters, 0)
}

func ValidateFluency(fluency float64, threshold float64) bool {
	return fluency >= threshold
}
