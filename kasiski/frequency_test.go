package kasiski

import (
	"math"
	"testing"

	"vigenere-backend/crypto"
)

func TestEnglishFrequenciesIsACopy(t *testing.T) {
	table := EnglishFrequencies()
	table[0] = 1
	if EnglishFrequencies()[0] != 0.082 {
		t.Fatal("reference table was mutated through a copy")
	}
	if table.Of('e') != 0.127 || table.Of('E') != 0.127 {
		t.Errorf("expected E frequency 0.127")
	}
}

func TestScoreShiftRecoversCaesarShift(t *testing.T) {
	plaintext := "ETAOINSHRDLUTHEQUICKBROWNFOXJUMPSOVERTHELAZYDOG"
	for _, key := range []string{"A", "H", "Q", "Z"} {
		column, err := crypto.Encrypt(plaintext, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := ScoreShift(column); got != key[0] {
			t.Errorf("key %s: expected %c, got %c", key, key[0], got)
		}
	}
}

func TestScoreShiftIgnoresCaseAndNonLetters(t *testing.T) {
	column, err := crypto.Encrypt("etaoin shrdlu, the quick brown fox!", "H")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A single-letter key shifts spaces too, but they carry no letter.
	if got := ScoreShift(column); got != 'H' {
		t.Errorf("expected H, got %c", got)
	}
}

func TestScoreShiftEmptyColumn(t *testing.T) {
	for _, column := range []string{"", "   ", "123!"} {
		if got := ScoreShift(column); got != 'A' {
			t.Errorf("%q: expected A, got %c", column, got)
		}
	}
}

func TestScoreShiftTieKeepsLowestShift(t *testing.T) {
	var flat FrequencyTable
	for i := range flat {
		flat[i] = 1.0 / crypto.AlphabetSize
	}
	scorer := NewScorer(flat)
	if got := scorer.ScoreShift("QWERTY"); got != 'A' {
		t.Fatalf("expected A on a flat table, got %c", got)
	}
}

func TestCorrelation(t *testing.T) {
	scorer := NewScorer(EnglishFrequencies())

	var counts [crypto.AlphabetSize]int
	counts['F'-'A'] = 2
	counts['U'-'A'] = 1

	// Shift 1 maps F to E and U to T.
	got := scorer.Correlation(counts, 4, 1)
	expected := 2.0/4.0*0.127 + 1.0/4.0*0.091
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if got := scorer.Correlation(counts, 0, 1); got != 0 {
		t.Errorf("expected 0 for empty column, got %v", got)
	}
}

func TestCalculateFluency(t *testing.T) {
	english := CalculateFluency(dickens)
	if !ValidateFluency(english, DefaultFluencyThreshold) {
		t.Errorf("expected English text to pass, got %v", english)
	}

	ciphertext, err := crypto.Encrypt(dickens, "LEMON")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scrambled := CalculateFluency(ciphertext); ValidateFluency(scrambled, DefaultFluencyThreshold) {
		t.Errorf("expected ciphertext to fail, got %v", scrambled)
	}

	if got := CalculateFluency("1234 !?"); got != 0 {
		t.Errorf("expected 0 without letters, got %v", got)
	}
}
