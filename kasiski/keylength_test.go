package kasiski

import (
	"testing"

	"vigenere-backend/crypto"
)

func TestGCD(t *testing.T) {
	tests := []struct {
		numbers  []int
		expected int
	}{
		{nil, 0},
		{[]int{7}, 7},
		{[]int{6, 9}, 3},
		{[]int{10, 15, 25}, 5},
		{[]int{9, 10}, 1},
		{[]int{12, 18, 30}, 6},
		{[]int{-4, 6}, 2},
	}
	for _, tt := range tests {
		if got := GCD(tt.numbers...); got != tt.expected {
			t.Errorf("GCD(%v): expected %d, got %d", tt.numbers, tt.expected, got)
		}
	}
}

func TestEstimateKeyLengthFromRepeatedFragment(t *testing.T) {
	ciphertext, err := crypto.Encrypt("THEDOGTHECATANDTHE", "KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repeats := FindRepeatedSequences(ciphertext, 3)
	positions, ok := repeats["DLC"]
	if !ok {
		t.Fatalf("expected repeated ciphertext fragment DLC, got %v", repeats)
	}
	if len(positions) != 3 || positions[0] != 0 || positions[1] != 6 || positions[2] != 15 {
		t.Fatalf("expected positions [0 6 15], got %v", positions)
	}

	estimate := Analyze(ciphertext)
	if estimate.KeyLength != 3 {
		t.Fatalf("expected key length 3, got %d", estimate.KeyLength)
	}
	if estimate.SequenceLength != 3 {
		t.Errorf("expected sequence length 3, got %d", estimate.SequenceLength)
	}
	if !estimate.Resolved() {
		t.Errorf("expected resolved estimate")
	}
}

func TestEstimateKeyLengthReportsMultiple(t *testing.T) {
	// Every repeat here is 9 apart, so the estimate is a multiple of the true
	// key length 3. This is accepted GCD behavior.
	ciphertext, err := crypto.Encrypt("the dog, the cat, the rat", "KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := EstimateKeyLength(ciphertext); got != 9 {
		t.Fatalf("expected key length 9, got %d", got)
	}
}

func TestEstimateKeyLengthFallsThroughToLongerSequences(t *testing.T) {
	ciphertext, err := crypto.Encrypt(dickens, "ABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	estimate := Analyze(ciphertext)
	if estimate.KeyLength != 3 {
		t.Fatalf("expected key length 3, got %d", estimate.KeyLength)
	}
	if estimate.SequenceLength != 4 {
		t.Errorf("expected 4-character sequences to decide, got %d", estimate.SequenceLength)
	}
}

func TestEstimateKeyLengthUnresolved(t *testing.T) {
	texts := []string{
		"",
		"QWERTYUIOPASDFGHJKLZ",
		"XKCDZQWVBNMLPOIU",
	}
	for _, text := range texts {
		estimate := Analyze(text)
		if estimate.KeyLength != 1 {
			t.Errorf("%q: expected key length 1, got %d", text, estimate.KeyLength)
		}
		if estimate.Resolved() || estimate.SequenceLength != 0 {
			t.Errorf("%q: expected unresolved estimate, got %+v", text, estimate)
		}
	}
}
