// Package handlers implements the HTTP handlers for the GreenMason backend.
// All handlers use the Store interface plus narrow provider interfaces, so
// tests can swap in the memory store and stub providers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/greenmason/greenmason/internal/store"
	"github.com/greenmason/greenmason/pkg/models"
)

// AIService is the slice of the Gemini client the handlers need.
type AIService interface {
	ClassifyWaste(ctx context.Context, imageBase64, mimeType string) (*models.Classification, error)
	EcoChat(ctx context.Context, message string, history []models.ChatMessage) (*models.ChatResult, error)
	DailyTip(ctx context.Context) (string, error)
}

// SpeechService is the slice of the ElevenLabs client the handlers need.
type SpeechService interface {
	Speak(ctx context.Context, text string) ([]byte, error)
	ScoreSummary(ctx context.Context, displayName string, score, rank int) ([]byte, error)
}

// Handlers holds all handler dependencies.
type Handlers struct {
	Store   store.Store
	AI      AIService
	Speech  SpeechService
	Version string
}

// New creates a new Handlers instance with all dependencies.
func New(s store.Store, ai AIService, speech SpeechService, version string) *Handlers {
	return &Handlers{
		Store:   s,
		AI:      ai,
		Speech:  speech,
		Version: version,
	}
}

// ══════════════════════════════════════════════════════════════
// ── Root & Health ────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "GreenMason API",
		"tagline": "Fall in Love with a Greener Campus 💚🌿",
		"version": h.Version,
		"endpoints": map[string]string{
			"classify":    "/api/classify",
			"chat":        "/api/chat",
			"voice":       "/api/voice/tip",
			"leaderboard": "/api/leaderboard",
			"pledges":     "/api/pledges",
			"patriotai":   "/api/patriotai/agents",
			"stats":       "/api/stats",
		},
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ══════════════════════════════════════════════════════════════
// ── Global Stats ─────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GlobalStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Stats failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ── Helpers ──────────────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps storage errors onto the API's status codes:
// missing entities are 404, everything else is 500.
func respondStoreError(w http.ResponseWriter, err error, fallback string) {
	if store.IsNotFound(err) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, fallback+": "+err.Error())
}
