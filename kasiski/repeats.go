// Package kasiski recovers Vigenère keys from ciphertext alone using the
// Kasiski examination and per-column frequency analysis.
package kasiski

import "sort"

// FindRepeatedSequences slides a window of length characters over the raw text,
// punctuation and spaces included, and returns every window seen at two or more
// positions. Positions are ascending character indexes.
func FindRepeatedSequences(text string, length int) map[string][]int {
	runes := []rune(text)
	sequences := make(map[string][]int)
	if length <= 0 || length > len(runes) {
		return sequences
	}

	for i := 0; i+length <= len(runes); i++ {
		sequence := string(runes[i : i+length])
		sequences[sequence] = append(sequences[sequence], i)
	}

	for sequence, positions := range sequences {
		if len(positions) < 2 {
			delete(sequences, sequence)
		}
	}

	return sequences
}

// Distances pools the gaps between consecutive occurrences of every repeated
// sequence. Sequences are visited in sorted order so the result is stable.
func Distances(repeats map[string][]int) []int {
	sequences := make([]string, 0, len(repeats))
	for sequence := range repeats {
		sequences = append(sequences, sequence)
	}
	sort.Strings(sequences)

	distances := make([]int, 0)
	for _, sequence := range sequences {
		positions := repeats[sequence]
		for i := 1; i < len(positions); i++ {
			distances = append(distances, positions[i]-positions[i-1])
		}
	}

	return distances
}
