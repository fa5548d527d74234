package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"frontier.dev/internal/network"
	"frontier.dev/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler pushes world events to websocket clients and reads hero
// intents from them
type StreamHandler struct {
	world  *services.WorldService
	game   *services.GameService
	logger *log.Logger
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(ws *services.WorldService, logger *log.Logger) *StreamHandler {
	return &StreamHandler{
		world:  ws,
		game:   services.NewGameService(ws),
		logger: logger,
	}
}

// ServeWS handles GET /ws
func (h *StreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[HTTP] Failed to upgrade connection: %v", err)
		return
	}
	conn := network.NewConnection(ws, h.logger)
	go conn.WritePump()

	events, unsubscribe := h.world.Subscribe()
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for event := range events {
			conn.SendMessage(event)
		}
	}()

	if summary, err := h.world.Summary(); err == nil {
		conn.SendMessage(services.Event{Type: services.EventState, State: summary})
	}

	conn.ReadPump(h)

	unsubscribe()
	<-forwarded
	conn.Close()
}

// HandleMessage submits an intent read from a client
func (h *StreamHandler) HandleMessage(conn *network.Connection, message []byte) {
	var intent services.Intent
	if err := json.Unmarshal(message, &intent); err != nil {
		conn.SendMessage(services.Event{Type: services.EventError, Error: "invalid intent"})
		return
	}
	if err := h.game.Act(intent); err != nil {
		conn.SendMessage(services.Event{Type: services.EventError, Error: err.Error()})
	}
}
