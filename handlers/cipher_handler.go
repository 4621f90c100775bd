// Package handlers is made to handle requests
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"vigenere-backend/crypto"
	"vigenere-backend/kasiski"
	"vigenere-backend/models"
	"vigenere-backend/store"
)

const textFileField = "text_file"

type CipherHandler struct {
	recoverer      *kasiski.Recoverer
	store          *store.Store
	maxUploadBytes int64
}

// NewCipherHandler builds the handler. A nil store disables attack history.
func NewCipherHandler(st *store.Store, maxUploadBytes int64) *CipherHandler {
	return &CipherHandler{
		recoverer:      kasiski.NewRecoverer(kasiski.NewScorer(kasiski.EnglishFrequencies())),
		store:          st,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register mounts the API routes on group.
func (h *CipherHandler) Register(api *gin.RouterGroup) {
	api.GET("/health", h.HealthCheck)

	cipher := api.Group("/cipher")
	{
		cipher.POST("/encrypt", h.EncryptText)
		cipher.POST("/decrypt", h.DecryptText)
	}

	analysis := api.Group("/cryptanalysis")
	{
		analysis.POST("/kasiski", h.CrackText)
		analysis.GET("/history", h.ListHistory)
	}
}

func (h *CipherHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Vigenère API is running",
		"version": "1.0.0",
	})
}

func (h *CipherHandler) EncryptText(c *gin.Context) {
	h.transform(c, crypto.ModeEncrypt)
}

func (h *CipherHandler) DecryptText(c *gin.Context) {
	h.transform(c, crypto.ModeDecrypt)
}

func (h *CipherHandler) transform(c *gin.Context, mode crypto.Mode) {
	var req models.CipherRequest
	if err := h.bind(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, models.CipherResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse request: %v", err),
		})
		return
	}

	if req.Key == "" {
		c.JSON(http.StatusBadRequest, models.CipherResponse{
			Success: false,
			Message: "Key is required",
		})
		return
	}

	if err := crypto.ValidateKey(req.Key); err != nil {
		c.JSON(http.StatusBadRequest, models.CipherResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid key: %v", err),
		})
		return
	}

	upload, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.CipherResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid upload: %v", err),
		})
		return
	}

	text := req.Text
	if upload != nil {
		text = upload.text
	}
	if text == "" && upload == nil {
		c.JSON(http.StatusBadRequest, models.CipherResponse{
			Success: false,
			Message: "Text or text_file is required",
		})
		return
	}

	output, err := crypto.Transform(text, req.Key, mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.CipherResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to %s text: %v", mode, err),
		})
		return
	}

	c.Header("X-Vigenere-Key-Length", strconv.Itoa(len(req.Key)))

	if upload != nil {
		sendText(c, upload.outputName(mode.String()+"ed"), output)
		return
	}

	c.JSON(http.StatusOK, models.CipherResponse{
		Success: true,
		Message: fmt.Sprintf("Text successfully %sed", mode),
		Text:    output,
	})
}

func (h *CipherHandler) CrackText(c *gin.Context) {
	var req models.KasiskiRequest
	if err := h.bind(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, models.KasiskiResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse request: %v", err),
		})
		return
	}

	upload, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.KasiskiResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid upload: %v", err),
		})
		return
	}

	ciphertext := req.Text
	if upload != nil {
		ciphertext = upload.text
	}
	if ciphertext == "" {
		c.JSON(http.StatusBadRequest, models.KasiskiResponse{
			Success: false,
			Message: "Ciphertext is required",
		})
		return
	}

	result, err := h.recoverer.Recover(ciphertext)
	analysisID := h.recordAnalysis(c.Request.Context(), ciphertext, result, err)

	if err != nil {
		status := http.StatusInternalServerError
		message := fmt.Sprintf("Failed to recover key: %v", err)
		if errors.Is(err, crypto.ErrUnresolvedKeyLength) {
			status = http.StatusUnprocessableEntity
			message = "Could not determine the key length: the ciphertext has no repeated sequences with a common period. Provide a longer ciphertext or decrypt with a known key."
		}
		log.Printf("kasiski: attack on %d characters failed: %v", utf8.RuneCountInString(ciphertext), err)
		c.JSON(status, models.KasiskiResponse{
			Success:    false,
			Message:    message,
			KeyLength:  result.Estimate.KeyLength,
			AnalysisID: analysisID,
		})
		return
	}

	fluency := kasiski.CalculateFluency(result.Plaintext)
	log.Printf("kasiski: key length %d (from %d-character repeats), recovered key %s, fluency %.4f",
		result.Estimate.KeyLength, result.Estimate.SequenceLength, result.Key, fluency)

	c.Header("X-Kasiski-Key", result.Key)
	c.Header("X-Kasiski-Key-Length", strconv.Itoa(result.Estimate.KeyLength))
	c.Header("X-Kasiski-Fluency", strconv.FormatFloat(fluency, 'f', 4, 64))
	if analysisID != "" {
		c.Header("X-Kasiski-Analysis-ID", analysisID)
	}

	if upload != nil {
		sendText(c, upload.outputName("kasiski"), result.Plaintext)
		return
	}

	message := "Key recovered"
	if !kasiski.ValidateFluency(fluency, kasiski.DefaultFluencyThreshold) {
		message = "Key recovered, but the plaintext does not look like English; the key length may be a divisor or multiple of the true one"
	}

	c.JSON(http.StatusOK, models.KasiskiResponse{
		Success:        true,
		Message:        message,
		Plaintext:      result.Plaintext,
		Key:            result.Key,
		KeyLength:      result.Estimate.KeyLength,
		SequenceLength: result.Estimate.SequenceLength,
		Fluency:        fluency,
		AnalysisID:     analysisID,
	})
}

func (h *CipherHandler) ListHistory(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, models.HistoryResponse{
			Success:  false,
			Message:  "Attack history is disabled",
			Analyses: []models.AnalysisRecord{},
		})
		return
	}

	limit := store.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > store.MaxHistoryLimit {
			c.JSON(http.StatusBadRequest, models.HistoryResponse{
				Success:  false,
				Message:  fmt.Sprintf("limit must be between 1 and %d", store.MaxHistoryLimit),
				Analyses: []models.AnalysisRecord{},
			})
			return
		}
		limit = parsed
	}

	records, err := h.store.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.HistoryResponse{
			Success:  false,
			Message:  fmt.Sprintf("Failed to load history: %v", err),
			Analyses: []models.AnalysisRecord{},
		})
		return
	}

	c.JSON(http.StatusOK, models.HistoryResponse{
		Success:  true,
		Analyses: records,
	})
}

// recordAnalysis stores the attack outcome and returns its ID. History is
// best effort: failures are logged and never reach the client.
func (h *CipherHandler) recordAnalysis(ctx context.Context, ciphertext string, result *kasiski.Result, attackErr error) string {
	if h.store == nil {
		return ""
	}
	record, err := h.store.InsertAnalysis(ctx, store.NewRecord(ciphertext, result, attackErr))
	if err != nil {
		log.Printf("Warning: could not record analysis: %v", err)
		return ""
	}
	return record.ID
}

func (h *CipherHandler) bind(c *gin.Context, obj any) error {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	return c.ShouldBind(obj)
}

type textUpload struct {
	filename string
	text     string
}

func (u *textUpload) outputName(suffix string) string {
	base := strings.TrimSuffix(filepath.Base(u.filename), filepath.Ext(u.filename))
	if base == "" || base == "." {
		base = "text"
	}
	return fmt.Sprintf("%s_%s.txt", base, suffix)
}

// readUpload returns the text_file part of a multipart request, or nil when
// the request carries no file.
func readUpload(c *gin.Context) (*textUpload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}

	file, header, err := c.Request.FormFile(textFileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", textFileField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", textFileField, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s must be UTF-8 encoded text", textFileField)
	}

	return &textUpload{filename: header.Filename, text: string(data)}, nil
}

func sendText(c *gin.Context, filename, text string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Header("Content-Length", strconv.Itoa(len(text)))

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
