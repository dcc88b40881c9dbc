package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/greenmason/greenmason/internal/patriot"
	"github.com/greenmason/greenmason/pkg/models"
)

// ══════════════════════════════════════════════════════════════
// ── Snap & Sort — Waste Classification ───────────────────────
// ══════════════════════════════════════════════════════════════

type classifyRequest struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ClassifyWaste classifies a base64-encoded waste photo.
func (h *Handlers) ClassifyWaste(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ImageBase64 == "" {
		respondError(w, http.StatusBadRequest, "image_base64 is required")
		return
	}

	result, err := h.AI.ClassifyWaste(r.Context(), req.ImageBase64, req.MimeType)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Classification failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ClassifyWasteUpload classifies a multipart file upload instead of base64.
func (h *Handlers) ClassifyWasteUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file upload is required")
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	mimeType := header.Header.Get("Content-Type")
	imageBase64 := base64.StdEncoding.EncodeToString(contents)

	result, err := h.AI.ClassifyWaste(r.Context(), imageBase64, mimeType)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Classification failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════
// ── EcoChat ──────────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

type chatRequest struct {
	Message string               `json:"message"`
	History []models.ChatMessage `json:"history"`
}

// Chat answers a sustainability question and merges the two routing
// signals: the model's in-band route tag wins, the keyword router fills
// in only when the model stayed silent.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	match := patriot.Route(req.Message)

	result, err := h.AI.EcoChat(r.Context(), req.Message, req.History)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Chat failed: "+err.Error())
		return
	}

	if !result.RouteToPatriotAI && match != nil {
		result.RouteToPatriotAI = true
		result.PatriotAIAgent = match.AgentKey
		result.PatriotAIReason = fmt.Sprintf(
			"%s For the best answer, try %s on PatriotAI — %s",
			match.AgentEmoji, match.AgentName, match.AgentDescription)
	}

	if result.RouteToPatriotAI {
		log.Info().Str("agent", result.PatriotAIAgent).Msg("Chat routed to PatriotAI")
	}
	respondJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════
// ── PatriotAI Integration ────────────────────────────────────
// ══════════════════════════════════════════════════════════════

// ListAgents returns the PatriotAI agent catalog.
func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"platform": "PatriotAI",
		"provider": "Cloudforce nebulaONE® on Microsoft Azure",
		"url":      patriot.PlatformURL,
		"agents":   patriot.Agents(),
	})
}

// RouteMessage runs the intent router against a single form-posted message.
func (h *Handlers) RouteMessage(w http.ResponseWriter, r *http.Request) {
	message := r.FormValue("message")
	if message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	match := patriot.Route(message)
	if match == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"should_route": false,
			"message":      "No PatriotAI routing needed for this query.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"should_route":      true,
		"agent_key":         match.AgentKey,
		"agent_name":        match.AgentName,
		"agent_emoji":       match.AgentEmoji,
		"agent_description": match.AgentDescription,
		"agent_url":         match.AgentURL,
		"matched_keywords":  match.MatchedKeywords,
		"example_queries":   match.ExampleQueries,
	})
}
