package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"frontier.dev/internal/persistence"
	"frontier.dev/internal/services"
)

// SetupRoutes configures all routes and returns the router
func SetupRoutes(world *services.WorldService, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))

	gameHandler := NewGameHandler(services.NewGameService(world), world)
	worldHandler := NewWorldHandler(world)
	streamHandler := NewStreamHandler(world, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/generation", worldHandler.GetGeneration)
		r.Post("/generation", worldHandler.StartGeneration)

		r.Get("/world", worldHandler.GetWorld)
		r.Get("/world/cells", gameHandler.GetCells)
		r.Get("/actors", worldHandler.GetActors)
		r.Get("/network", worldHandler.GetNetwork)
		r.Get("/journal", worldHandler.GetJournal)

		r.Post("/hero/action", gameHandler.Act)

		r.Get("/saves", worldHandler.ListSaves)
		r.Post("/saves/{slot}", worldHandler.Save)
		r.Post("/saves/{slot}/load", worldHandler.LoadSave)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	r.Get("/ws", streamHandler.ServeWS)

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to its status code
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoWorld), errors.Is(err, persistence.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrBusy):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, persistence.ErrVersion), errors.Is(err, persistence.ErrFormat):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
