package kasiski

const (
	MinSequenceLength = 3
	MaxSequenceLength = 5
)

// Estimate is the outcome of a Kasiski examination.
type Estimate struct {
	KeyLength      int
	SequenceLength int // n-gram length that produced KeyLength, 0 when unresolved
	Distances      []int
	Repeats        map[string][]int
}

func (e Estimate) Resolved() bool {
	return e.KeyLength > 1
}

// Analyze tries sequence lengths 3, 4 and 5 in order and stops at the first one
// whose pooled repeat distances share a divisor greater than one. Longer
// sequences are only consulted when shorter ones fail.
func Analyze(text string) Estimate {
	for length := MinSequenceLength; length <= MaxSequenceLength; length++ {
		repeats := FindRepeatedSequences(text, length)
		distances := Distances(repeats)
		if len(distances) == 0 {
			continue
		}

		if keyLength := GCD(distances...); keyLength > 1 {
			return Estimate{
				KeyLength:      keyLength,
				SequenceLength: length,
				Distances:      distances,
				Repeats:        repeats,
			}
		}
	}

	return Estimate{KeyLength: 1}
}

// EstimateKeyLength returns the likely key length, or 1 when no periodicity
// was found.
func EstimateKeyLength(text string) int {
	return Analyze(text).KeyLength
}

// GCD returns the greatest common divisor of numbers, 0 for none.
func GCD(numbers ...int) int {
	result := 0
	for _, n := range numbers {
		result = gcd(result, n)
	}
	return result
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
