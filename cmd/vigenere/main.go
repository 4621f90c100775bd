// Package main provides the CLI entrypoint for the Vigenère toolkit.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"vigenere-backend/config"
	"vigenere-backend/crypto"
	"vigenere-backend/kasiski"
	"vigenere-backend/store"
)

var (
	cipherKey string
	inPath    string
	outPath   string

	crackRecord bool
	dbPath      string

	historyLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vigenere",
		Short:         "Vigenère cipher and Kasiski cryptanalysis",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newCipherCmd("encrypt", "Encrypt text with a known key", crypto.ModeEncrypt))
	rootCmd.AddCommand(newCipherCmd("decrypt", "Decrypt text with a known key", crypto.ModeDecrypt))
	rootCmd.AddCommand(newCrackCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func newCipherCmd(use, short string, mode crypto.Mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCipherCmd(cmd, mode)
		},
	}
	cmd.Flags().StringVar(&cipherKey, "key", "", "cipher key (letters only)")
	cmd.Flags().StringVar(&inPath, "in", "", "input file (default: stdin)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")
	if err := cmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}
	return cmd
}

func runCipherCmd(cmd *cobra.Command, mode crypto.Mode) error {
	text, err := readInput(cmd, inPath)
	if err != nil {
		return err
	}
	output, err := crypto.Transform(text, cipherKey, mode)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", mode, err)
	}
	return writeOutput(cmd, outPath, output)
}

func newCrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crack",
		Short: "Recover key and plaintext from ciphertext alone (Kasiski examination)",
		Args:  cobra.NoArgs,
		RunE:  runCrackCmd,
	}
	cmd.Flags().StringVar(&inPath, "in", "", "ciphertext file (default: stdin)")
	cmd.Flags().StringVar(&outPath, "out", "", "write recovered plaintext to this file")
	cmd.Flags().BoolVar(&crackRecord, "record", false, "record the attack in the history database")
	cmd.Flags().StringVar(&dbPath, "db", "", "history database path")
	return cmd
}

func runCrackCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "record", &crackRecord, fileCfg.Store.Enabled)
	resolveDBPath(cmd, fileCfg)

	ciphertext, err := readInput(cmd, inPath)
	if err != nil {
		return err
	}

	rep := newReport(cmd.OutOrStdout())
	rep.section("Ciphertext", ciphertext)

	result, attackErr := kasiski.NewRecoverer(nil).Recover(ciphertext)

	if crackRecord {
		if err := recordAttack(cmd.Context(), ciphertext, result, attackErr); err != nil {
			logErrf("failed to record attack: %v\n", err)
		}
	}

	if attackErr != nil {
		if errors.Is(attackErr, crypto.ErrUnresolvedKeyLength) {
			rep.field("Key length", "unknown")
		}
		return attackErr
	}

	fluency := kasiski.CalculateFluency(result.Plaintext)
	rep.field("Key length", fmt.Sprintf("%d (from %d-character repeats)", result.Estimate.KeyLength, result.Estimate.SequenceLength))
	rep.key(result.Key)
	rep.field("Fluency", fmt.Sprintf("%.4f", fluency))
	if !kasiski.ValidateFluency(fluency, kasiski.DefaultFluencyThreshold) {
		rep.warn("plaintext does not look like English; the key length may be a divisor or multiple of the true one")
	}

	if outPath != "" {
		if err := writeOutput(cmd, outPath, result.Plaintext); err != nil {
			return err
		}
		rep.field("Plaintext saved to", outPath)
		return rep.err
	}
	rep.section("Plaintext", result.Plaintext)
	return rep.err
}

func recordAttack(ctx context.Context, ciphertext string, result *kasiski.Result, attackErr error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = st.InsertAnalysis(ctx, store.NewRecord(ciphertext, result, attackErr))
	return err
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded attacks, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", store.DefaultHistoryLimit, "number of records to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "history database path")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLimit < 1 || historyLimit > store.MaxHistoryLimit {
		return fmt.Errorf("--limit must be between 1 and %d", store.MaxHistoryLimit)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	resolveDBPath(cmd, fileCfg)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := st.ListAnalyses(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(records) == 0 {
		logErrf("No attacks recorded yet. Run: vigenere crack --record\n")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, r := range records {
		status := "ok"
		key := r.Key
		if !r.Success {
			status = "failed"
			key = "-"
		}
		if _, err := fmt.Fprintf(out, "%s  %s  len=%-3d key=%-12s chars=%-6d %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.KeyLength, key, r.CiphertextLength, status); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// resolveDBPath fills dbPath from, in order, the --db flag, VIGENERE_DB, the
// config file and the XDG default.
func resolveDBPath(cmd *cobra.Command, fileCfg config.FileConfig) {
	if cmd.Flags().Changed("db") {
		return
	}
	if v := strings.TrimSpace(os.Getenv("VIGENERE_DB")); v != "" {
		dbPath = v
		return
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Store.Path)
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return checkUTF8("stdin", data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return checkUTF8(path, data)
}

var errNotUTF8 = errors.New("input must be UTF-8 encoded text")

func checkUTF8(source string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("failed to read %s: %w", source, errNotUTF8)
	}
	return string(data), nil
}

func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" || path == "-" {
		if _, err := io.WriteString(cmd.OutOrStdout(), text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
