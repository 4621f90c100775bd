package kasiski

import "vigenere-backend/crypto"

// FrequencyTable holds the relative frequency of each letter A..Z.
type FrequencyTable [crypto.AlphabetSize]float64

var englishFrequencies = FrequencyTable{
	0.082, 0.015, 0.028, 0.043, 0.127, // A B C D E
	0.022, 0.020, 0.061, 0.070, 0.002, // F G H I J
	0.008, 0.040, 0.024, 0.067, 0.075, // K L M N O
	0.019, 0.001, 0.060, 0.063, 0.091, // P Q R S T
	0.028, 0.010, 0.023, 0.001, 0.020, // U V W X Y
	0.001, // Z
}

// EnglishFrequencies returns a copy of the reference English letter table.
func EnglishFrequencies() FrequencyTable {
	return englishFrequencies
}

func (t FrequencyTable) Of(letter byte) float64 {
	return t[crypto.Shift(letter)]
}

// Scorer picks the Caesar shift of a monoalphabetic column whose letter
// distribution correlates best with a reference table.
type Scorer struct {
	reference FrequencyTable
}

func NewScorer(reference FrequencyTable) *Scorer {
	return &Scorer{reference: reference}
}

var englishScorer = NewScorer(englishFrequencies)

// ScoreShift scores a column against English text.
func ScoreShift(column string) byte {
	return englishScorer.ScoreShift(column)
}

// ScoreShift returns the key letter for the most probable shift. Ties keep
// the lowest shift. Non-letters are not counted but do add to the column length.
func (s *Scorer) ScoreShift(column string) byte {
	counts, length := countLetters(column)

	bestShift := 0
	maxCorrelation := -1.0
	for shift := 0; shift < crypto.AlphabetSize; shift++ {
		correlation := s.Correlation(counts, length, shift)
		if correlation > maxCorrelation {
			maxCorrelation = correlation
			bestShift = shift
		}
	}

	return byte('A' + bestShift)
}

// Correlation sums count/length times the reference frequency of each observed
// letter after undoing shift.
func (s *Scorer) Correlation(counts [crypto.AlphabetSize]int, length, shift int) float64 {
	if length == 0 {
		return 0
	}

	var correlation float64
	for letter, count := range counts {
		if count == 0 {
			continue
		}
		shifted := (letter - shift + crypto.AlphabetSize) % crypto.AlphabetSize
		correlation += float64(count) / float64(length) * s.reference[shifted]
	}
	return correlation
}

// countLetters case-folds the ASCII letters of text into counts and returns
// them along with the character length of text.
func countLetters(text string) ([crypto.AlphabetSize]int, int) {
	var counts [crypto.AlphabetSize]int
	length := 0
	for _, char := range text {
		length++
		if crypto.IsLetter(char) {
			counts[crypto.Shift(byte(char))]++
		}
	}
	return counts, length
}
