package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/greenmason/greenmason/pkg/models"
)

// ══════════════════════════════════════════════════════════════
// ── Green Score & Leaderboard ────────────────────────────────
// ══════════════════════════════════════════════════════════════

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// CreateUser creates a new user or returns the existing one unchanged.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.Store.CreateUser(r.Context(), req.Username, req.DisplayName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "User creation failed: "+err.Error())
		return
	}

	log.Info().Str("username", user.Username).Msg("User created")
	respondJSON(w, http.StatusOK, user)
}

// GetUser returns a user profile with their current rank attached.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.Store.GetUser(r.Context(), username)
	if err != nil {
		respondStoreError(w, err, "User lookup failed")
		return
	}

	rank, err := h.Store.UserRank(r.Context(), username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "User lookup failed: "+err.Error())
		return
	}
	user.Rank = rank

	respondJSON(w, http.StatusOK, user)
}

type scoreActionRequest struct {
	Username    string            `json:"username"`
	Action      models.ActionKind `json:"action"`
	Points      int               `json:"points"`
	Description string            `json:"description"`
}

// LogScore appends a point-earning action to the ledger.
func (h *Handlers) LogScore(w http.ResponseWriter, r *http.Request) {
	var req scoreActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}
	if !models.ValidActionKind(req.Action) {
		respondError(w, http.StatusBadRequest, "unknown action kind: "+string(req.Action))
		return
	}
	if req.Points <= 0 {
		req.Points = 10
	}

	result, err := h.Store.LogAction(r.Context(), req.Username, req.Action, req.Points, req.Description)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Score logging failed: "+err.Error())
		return
	}

	log.Info().
		Str("username", result.Username).
		Str("action", string(result.Kind)).
		Int("points", result.PointsAdded).
		Int("total", result.NewTotal).
		Msg("Action logged")
	respondJSON(w, http.StatusOK, result)
}

// GetLeaderboard returns the campus-wide Green Score leaderboard.
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	entries, err := h.Store.Leaderboard(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Leaderboard failed: "+err.Error())
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard":   entries,
		"total_entries": len(entries),
	})
}

// ══════════════════════════════════════════════════════════════
// ── Love Pledges ─────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

type createPledgeRequest struct {
	Username   string `json:"username"`
	PledgeText string `json:"pledge_text"`
}

// CreatePledge posts a Love Pledge to Earth and credits the fixed reward.
func (h *Handlers) CreatePledge(w http.ResponseWriter, r *http.Request) {
	var req createPledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.PledgeText == "" {
		respondError(w, http.StatusBadRequest, "username and pledge_text are required")
		return
	}

	pledge, err := h.Store.CreatePledge(r.Context(), req.Username, req.PledgeText)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Pledge creation failed: "+err.Error())
		return
	}

	log.Info().Str("username", pledge.Username).Str("pledge", pledge.ID).Msg("Pledge created")
	respondJSON(w, http.StatusOK, pledge)
}

// ListPledges returns the Love Letters to Earth wall, newest first.
func (h *Handlers) ListPledges(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	pledges, err := h.Store.ListPledges(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Pledge retrieval failed: "+err.Error())
		return
	}
	if pledges == nil {
		pledges = []models.Pledge{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pledges": pledges,
		"total":   len(pledges),
	})
}

// LikePledge increments a pledge's like counter.
func (h *Handlers) LikePledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pledgeID")

	if err := h.Store.LikePledge(r.Context(), id); err != nil {
		respondStoreError(w, err, "Pledge like failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "liked", "pledge_id": id})
}

// queryInt parses an integer query parameter, falling back on junk input.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
