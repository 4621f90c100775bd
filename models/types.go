// Package models contain needed models
package models

import "time"

// CipherRequest represents the request for encrypting or decrypting text
type CipherRequest struct {
	Key  string `json:"key" form:"key"`
	Text string `json:"text" form:"text"`
}

// CipherResponse represents the response after a cipher transform
type CipherResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Text    string `json:"text,omitempty"`
}

// KasiskiRequest represents the request for a ciphertext-only attack
type KasiskiRequest struct {
	Text string `json:"text" form:"text"`
}

// KasiskiResponse represents the response after a ciphertext-only attack
type KasiskiResponse struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message"`
	Plaintext      string  `json:"plaintext,omitempty"`
	Key            string  `json:"key,omitempty"`
	KeyLength      int     `json:"key_length"`
	SequenceLength int     `json:"ngram_length,omitempty"`
	Fluency        float64 `json:"fluency,omitempty"`
	AnalysisID     string  `json:"analysis_id,omitempty"`
}

// HistoryResponse lists recorded attacks, newest first
type HistoryResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Analyses []AnalysisRecord `json:"analyses"`
}

// AnalysisRecord is one persisted Kasiski attack
type AnalysisRecord struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	CiphertextLength int       `json:"ciphertext_length"`
	CiphertextSHA256 string    `json:"ciphertext_sha256"`
	KeyLength        int       `json:"key_length"`
	SequenceLength   int       `json:"ngram_length"`
	Key              string    `json:"key,omitempty"`
	Fluency          float64   `json:"fluency"`
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
}
