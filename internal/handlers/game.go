package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"frontier.dev/internal/models"
	"frontier.dev/internal/services"
)

// GameHandler handles the hero endpoints
type GameHandler struct {
	gameService  *services.GameService
	worldService *services.WorldService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gs *services.GameService, ws *services.WorldService) *GameHandler {
	return &GameHandler{
		gameService:  gs,
		worldService: ws,
	}
}

// GetCells handles GET /api/world/cells
func (h *GameHandler) GetCells(w http.ResponseWriter, r *http.Request) {
	width := clamp(parseIntParam(r, "width", 40), 10, 200)
	height := clamp(parseIntParam(r, "height", 20), 10, 100)

	// the viewport follows the hero unless both coordinates are given
	var center *models.Point
	query := r.URL.Query()
	if query.Has("x") && query.Has("y") {
		x, errX := strconv.Atoi(query.Get("x"))
		y, errY := strconv.Atoi(query.Get("y"))
		if errX != nil || errY != nil {
			respondError(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
		center = &models.Point{X: x, Y: y}
	}

	viewport, err := h.worldService.Viewport(query.Get("floor"), center, width, height)
	if err != nil {
		if errors.Is(err, services.ErrNoWorld) {
			respondServiceError(w, err)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, viewport)
}

// Act handles POST /api/hero/action
func (h *GameHandler) Act(w http.ResponseWriter, r *http.Request) {
	var intent services.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.gameService.Act(intent); err != nil {
		if errors.Is(err, services.ErrNoWorld) || errors.Is(err, services.ErrBusy) {
			respondServiceError(w, err)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.worldService.Summary()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, summary)
}

// parseIntParam parses an integer query parameter with a default value
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// clamp limits a value to a range
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
