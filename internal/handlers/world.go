package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"frontier.dev/internal/services"
)

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// WorldHandler handles generation, world and save endpoints
type WorldHandler struct {
	worldService *services.WorldService
}

// NewWorldHandler creates a new WorldHandler
func NewWorldHandler(ws *services.WorldService) *WorldHandler {
	return &WorldHandler{worldService: ws}
}

// GetGeneration handles GET /api/generation
func (h *WorldHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.worldService.GenerationStatus())
}

// StartGeneration handles POST /api/generation. Without a seed a random
// one is drawn.
func (h *WorldHandler) StartGeneration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed *uint64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	if err := h.worldService.StartGeneration(seed); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, h.worldService.GenerationStatus())
}

// GetWorld handles GET /api/world
func (h *WorldHandler) GetWorld(w http.ResponseWriter, r *http.Request) {
	summary, err := h.worldService.Summary()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetActors handles GET /api/actors
func (h *WorldHandler) GetActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.worldService.Actors()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, actors)
}

// GetNetwork handles GET /api/network
func (h *WorldHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	network, err := h.worldService.Network()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, network)
}

// GetJournal handles GET /api/journal
func (h *WorldHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	limit := clamp(parseIntParam(r, "limit", 50), 1, 500)
	journal, err := h.worldService.Journal(limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, journal)
}

// ListSaves handles GET /api/saves
func (h *WorldHandler) ListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := h.worldService.Saves(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saves)
}

// Save handles POST /api/saves/{slot}. The save runs in the background,
// its completion is pushed on the stream.
func (h *WorldHandler) Save(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	if !slotPattern.MatchString(slot) {
		respondError(w, http.StatusBadRequest, "Invalid slot name")
		return
	}
	if err := h.worldService.Save(slot); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"slot": slot, "status": "saving"})
}

// LoadSave handles POST /api/saves/{slot}/load
func (h *WorldHandler) LoadSave(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")
	if !slotPattern.MatchString(slot) {
		respondError(w, http.StatusBadRequest, "Invalid slot name")
		return
	}
	if err := h.worldService.LoadSave(r.Context(), slot); err != nil {
		respondServiceError(w, err)
		return
	}
	h.GetWorld(w, r)
}
