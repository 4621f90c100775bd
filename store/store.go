// Package store handles SQLite persistence of Kasiski attack history.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"vigenere-backend/kasiski"
	"vigenere-backend/models"

	_ "modernc.org/sqlite" // SQLite driver.
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for attack history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("%w (close: %v)", err, cerr)
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			ciphertext_length INTEGER NOT NULL,
			ciphertext_sha256 TEXT NOT NULL,
			key_length INTEGER NOT NULL,
			ngram_length INTEGER NOT NULL,
			recovered_key TEXT NOT NULL,
			fluency REAL NOT NULL,
			success INTEGER NOT NULL,
			error TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// NewRecord describes one attack on ciphertext. result may be nil and
// attackErr may be nil; the ciphertext itself is only kept as a digest.
func NewRecord(ciphertext string, result *kasiski.Result, attackErr error) models.AnalysisRecord {
	sum := sha256.Sum256([]byte(ciphertext))
	record := models.AnalysisRecord{
		CiphertextLength: utf8.RuneCountInString(ciphertext),
		CiphertextSHA256: hex.EncodeToString(sum[:]),
		Success:          attackErr == nil,
	}
	if result != nil {
		record.KeyLength = result.Estimate.KeyLength
		record.SequenceLength = result.Estimate.SequenceLength
		record.Key = result.Key
		if result.State == kasiski.StatePlaintextRecovered {
			record.Fluency = kasiski.CalculateFluency(result.Plaintext)
		}
	}
	if attackErr != nil {
		record.Error = attackErr.Error()
	}
	return record
}

// InsertAnalysis stores a record, filling in ID and CreatedAt when unset.
func (s *Store) InsertAnalysis(ctx context.Context, record models.AnalysisRecord) (models.AnalysisRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}

	success := 0
	if record.Success {
		success = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, ciphertext_length, ciphertext_sha256, key_length, ngram_length, recovered_key, fluency, success, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CreatedAt.UTC().Format(timeLayout),
		record.CiphertextLength,
		record.CiphertextSHA256,
		record.KeyLength,
		record.SequenceLength,
		record.Key,
		record.Fluency,
		success,
		record.Error,
	)
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("failed to insert analysis: %w", err)
	}
	return record, nil
}

// ListAnalyses returns up to limit records, newest first.
func (s *Store) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, ciphertext_length, ciphertext_sha256, key_length, ngram_length, recovered_key, fluency, success, error
		 FROM analyses
		 ORDER BY created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.AnalysisRecord, 0)
	for rows.Next() {
		var (
			record    models.AnalysisRecord
			createdAt string
			success   int
		)
		if err := rows.Scan(
			&record.ID,
			&createdAt,
			&record.CiphertextLength,
			&record.CiphertextSHA256,
			&record.KeyLength,
			&record.SequenceLength,
			&record.Key,
			&record.Fluency,
			&success,
			&record.Error,
		); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}
		record.CreatedAt = parsed
		record.Success = success == 1
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
