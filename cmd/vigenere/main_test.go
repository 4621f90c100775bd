package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vigenere-backend/crypto"
)

const dickens = "It was the best of times, it was the worst of times, it was the age of wisdom, " +
	"it was the age of foolishness, it was the epoch of belief, it was the epoch of incredulity, " +
	"it was the season of Light, it was the season of Darkness, it was the spring of hope, " +
	"it was the winter of despair, we had everything before us, we had nothing before us, " +
	"we were all going direct to Heaven, we were all going direct the other way - in short, " +
	"the period was so far like the present period, that some of its noisiest authorities " +
	"insisted on its being received, for good or for evil, in the superlative degree of comparison only."

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VIGENERE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("VIGENERE_DB", "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncryptStdinToStdout(t *testing.T) {
	out, err := runCLI(t, "ATTACKATDAWN", "encrypt", "--key", "LEMON")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "LXFOPVEFRNHR" {
		t.Fatalf("expected LXFOPVEFRNHR, got %q", out)
	}
}

func TestDecryptFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cipher.txt")
	out := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(in, []byte("Lxfopv mh oeib!"), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	if _, err := runCLI(t, "", "decrypt", "--key", "lemon", "--in", in, "--out", out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "Attack at dawn!" {
		t.Fatalf("unexpected plaintext %q", string(data))
	}
}

func TestEncryptInvalidKey(t *testing.T) {
	_, err := runCLI(t, "InvalidKey!", "encrypt", "--key", "AB3")
	if !errors.Is(err, crypto.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestCrackRecordsAndListsHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	ciphertext, err := crypto.Encrypt(dickens, "LEMON")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := runCLI(t, ciphertext, "crack", "--record", "--db", db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"=== Ciphertext ===", "Key length: 5", "Recovered key: LEMON", "=== Plaintext ===", dickens} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "warning:") {
		t.Errorf("unexpected fluency warning:\n%s", out)
	}

	_, err = runCLI(t, "QWERTYUIOPASDFGHJKLZ", "crack", "--record", "--db", db)
	if !errors.Is(err, crypto.ErrUnresolvedKeyLength) {
		t.Fatalf("expected ErrUnresolvedKeyLength, got %v", err)
	}

	out, err = runCLI(t, "", "history", "--db", db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 history lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "key=LEMON") || !strings.Contains(out, "failed") {
		t.Errorf("unexpected history output:\n%s", out)
	}
}

func TestCrackWritesPlaintextFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "encrypted_text_vigenere.txt")
	out := filepath.Join(dir, "decrypted_text_kasiski.txt")
	ciphertext, err := crypto.Encrypt(dickens, "KEY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(in, []byte(ciphertext), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	report, err := runCLI(t, "", "crack", "--in", in, "--out", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "Plaintext saved to: "+out) {
		t.Errorf("expected save notice, got:\n%s", report)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != dickens {
		t.Fatalf("unexpected plaintext %q", string(data))
	}
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	if _, err := runCLI(t, "", "history", "--limit", "0", "--db", filepath.Join(t.TempDir(), "h.db")); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestCipherRejectsInvalidUTF8(t *testing.T) {
	_, err := runCLI(t, "ab\xff\xfecd", "encrypt", "--key", "KEY")
	if !errors.Is(err, errNotUTF8) {
		t.Fatalf("expected errNotUTF8, got %v", err)
	}

	in := filepath.Join(t.TempDir(), "cipher.txt")
	if err := os.WriteFile(in, []byte("ab\xff"), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	if _, err := runCLI(t, "", "crack", "--in", in); !errors.Is(err, errNotUTF8) {
		t.Fatalf("expected errNotUTF8 for crack, got %v", err)
	}
}
