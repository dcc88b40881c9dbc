package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ══════════════════════════════════════════════════════════════
// ── Voice — Text-to-Speech ───────────────────────────────────
// ══════════════════════════════════════════════════════════════

type speakRequest struct {
	Text string `json:"text"`
}

// Speak converts arbitrary text to speech. Returns MP3 audio.
func (h *Handlers) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := h.Speech.Speak(r.Context(), req.Text)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Voice generation failed: "+err.Error())
		return
	}
	respondAudio(w, audio, "greenmason_voice.mp3", nil)
}

// DailyTip generates a sustainability tip and speaks it. The tip text
// rides along in the X-Tip-Text header, flattened to a single line and
// capped so it stays a valid header value.
func (h *Handlers) DailyTip(w http.ResponseWriter, r *http.Request) {
	tip, err := h.AI.DailyTip(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Daily tip failed: "+err.Error())
		return
	}

	audio, err := h.Speech.Speak(r.Context(), tip)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Daily tip failed: "+err.Error())
		return
	}

	headerTip := strings.ReplaceAll(tip, "\n", " ")
	if runes := []rune(headerTip); len(runes) > 200 {
		headerTip = string(runes[:200])
	}
	respondAudio(w, audio, "daily_tip.mp3", map[string]string{"X-Tip-Text": headerTip})
}

// DailyTipText returns a tip as text only, no audio.
func (h *Handlers) DailyTipText(w http.ResponseWriter, r *http.Request) {
	tip, err := h.AI.DailyTip(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Tip generation failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"tip": tip})
}

// ScoreSummary speaks a recap of a user's Green Score and rank.
func (h *Handlers) ScoreSummary(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.Store.GetUser(r.Context(), username)
	if err != nil {
		respondStoreError(w, err, "Score summary failed")
		return
	}

	rank, err := h.Store.UserRank(r.Context(), username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Score summary failed: "+err.Error())
		return
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}

	audio, err := h.Speech.ScoreSummary(r.Context(), displayName, user.TotalScore, rank)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Score summary failed: "+err.Error())
		return
	}
	respondAudio(w, audio, "score_summary.mp3", nil)
}

func respondAudio(w http.ResponseWriter, audio []byte, filename string, extra map[string]string) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "inline; filename="+filename)
	for k, v := range extra {
		w.Header().Set(k, v)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
