// Package crypto contains Vigenère Encryption and Decryption
package crypto

import (
	"fmt"
	"strings"
)

// AlphabetSize is the number of letters a shift wraps around.
const AlphabetSize = 26

// Mode selects the direction of a transform.
type Mode int

const (
	ModeEncrypt Mode = iota
	ModeDecrypt
)

func (m Mode) String() string {
	switch m {
	case ModeEncrypt:
		return "encrypt"
	case ModeDecrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Vigenere is a classical polyalphabetic substitution over the ASCII letters.
// The key index advances on every character of the text, letters or not.
type Vigenere struct {
	key    string
	shifts []int
}

func NewVigenere(key string) (*Vigenere, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	shifts := make([]int, len(key))
	for i := 0; i < len(key); i++ {
		shifts[i] = Shift(key[i])
	}

	return &Vigenere{
		key:    key,
		shifts: shifts,
	}, nil
}

func (v *Vigenere) Key() string {
	return v.key
}

func (v *Vigenere) Encrypt(plaintext string) string {
	return v.apply(plaintext, 1)
}

func (v *Vigenere) Decrypt(ciphertext string) string {
	return v.apply(ciphertext, -1)
}

func (v *Vigenere) Transform(text string, mode Mode) string {
	if mode == ModeDecrypt {
		return v.Decrypt(text)
	}
	return v.Encrypt(text)
}

func (v *Vigenere) apply(text string, sign int) string {
	var b strings.Builder
	b.Grow(len(text))

	keyLen := len(v.shifts)
	i := 0
	for _, char := range text {
		shift := sign * v.shifts[i%keyLen]
		switch {
		case 'A' <= char && char <= 'Z':
			char = rotate(char, 'A', shift)
		case 'a' <= char && char <= 'z':
			char = rotate(char, 'a', shift)
		}
		b.WriteRune(char)
		i++
	}

	return b.String()
}

func rotate(char, base rune, shift int) rune {
	offset := (int(char-base) + shift) % AlphabetSize
	if offset < 0 {
		offset += AlphabetSize
	}
	return base + rune(offset)
}

// Encrypt shifts every letter of plaintext forward by the cycled key.
func Encrypt(plaintext, key string) (string, error) {
	return Transform(plaintext, key, ModeEncrypt)
}

// Decrypt reverses Encrypt under the same key.
func Decrypt(ciphertext, key string) (string, error) {
	return Transform(ciphertext, key, ModeDecrypt)
}

func Transform(text, key string, mode Mode) (string, error) {
	cipher, err := NewVigenere(key)
	if err != nil {
		return "", err
	}
	return cipher.Transform(text, mode), nil
}

// Shift returns the 0-25 offset a key letter applies. Case is ignored.
func Shift(letter byte) int {
	if 'a' <= letter && letter <= 'z' {
		return int(letter - 'a')
	}
	return int(letter - 'A')
}

func IsLetter(char rune) bool {
	return ('A' <= char && char <= 'Z') || ('a' <= char && char <= 'z')
}

// ValidateKey validates if the key is suitable for the Vigenère cipher
func ValidateKey(key string) error {
	if len(key) == 0 {
		return &Error{Kind: InvalidKey, Reason: "key cannot be empty"}
	}
	for i, char := range key {
		if !IsLetter(char) {
			return &Error{
				Kind:   InvalidKey,
				Reason: fmt.Sprintf("key must contain only letters, found %q at position %d", char, i),
			}
		}
	}
	return nil
}
