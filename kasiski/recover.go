package kasiski

import (
	"fmt"
	"strings"

	"vigenere-backend/crypto"
)

// State is the stage an attack reached.
type State int

const (
	StateStart State = iota
	StateKeyLengthEstimated
	StateKeyAssembled
	StatePlaintextRecovered
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateKeyLengthEstimated:
		return "key_length_estimated"
	case StateKeyAssembled:
		return "key_assembled"
	case StatePlaintextRecovered:
		return "plaintext_recovered"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result of a ciphertext-only attack.
type Result struct {
	State     State
	Estimate  Estimate
	Key       string
	Plaintext string
}

type Recoverer struct {
	scorer *Scorer
}

func NewRecoverer(scorer *Scorer) *Recoverer {
	if scorer == nil {
		scorer = englishScorer
	}
	return &Recoverer{scorer: scorer}
}

// Recover estimates the key length, assembles one key letter per column and
// decrypts. It never guesses a key length: when the examination finds no
// periodicity the result is in StateFailed and the error matches
// crypto.ErrUnresolvedKeyLength.
func (r *Recoverer) Recover(ciphertext string) (*Result, error) {
	result := &Result{State: StateStart}

	result.Estimate = Analyze(ciphertext)
	if !result.Estimate.Resolved() {
		result.State = StateFailed
		return result, &crypto.Error{
			Kind:   crypto.UnresolvedKeyLength,
			Reason: "kasiski examination found no repeated sequences with a common period",
		}
	}
	result.State = StateKeyLengthEstimated

	result.Key = r.RecoverKey(ciphertext, result.Estimate.KeyLength)
	result.State = StateKeyAssembled

	plaintext, err := crypto.Decrypt(ciphertext, result.Key)
	if err != nil {
		result.State = StateFailed
		return result, fmt.Errorf("failed to decrypt with recovered key: %w", err)
	}
	result.Plaintext = plaintext
	result.State = StatePlaintextRecovered

	return result, nil
}

// RecoverKey scores each column of ciphertext and concatenates the letters.
func (r *Recoverer) RecoverKey(ciphertext string, keyLength int) string {
	var key strings.Builder
	for _, column := range Columns(ciphertext, keyLength) {
		key.WriteByte(r.scorer.ScoreShift(column))
	}
	return key.String()
}

// Columns splits text into keyLength interleaved columns: column i holds the
// characters at positions congruent to i modulo keyLength, in order. Every
// character counts toward the position, matching how the key was applied.
func Columns(text string, keyLength int) []string {
	if keyLength <= 0 {
		return nil
	}

	columns := make([]strings.Builder, keyLength)
	i := 0
	for _, char := range text {
		columns[i%keyLength].WriteRune(char)
		i++
	}

	result := make([]string, keyLength)
	for i := range columns {
		result[i] = columns[i].String()
	}
	return result
}

var defaultRecoverer = NewRecoverer(nil)

// DecryptViaKasiski recovers the plaintext and key of a Vigenère ciphertext
// using the English frequency table.
func DecryptViaKasiski(ciphertext string) (plaintext, key string, err error) {
	result, err := defaultRecoverer.Recover(ciphertext)
	if err != nil {
		return "", "", err
	}
	return result.Plaintext, result.Key, nil
}
