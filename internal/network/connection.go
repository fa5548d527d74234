package network

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Connection wraps a websocket with a buffered outgoing queue
type Connection struct {
	ws     *websocket.Conn
	send   chan []byte
	logger *log.Logger
	once   sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn, logger *log.Logger) *Connection {
	if logger == nil {
		logger = log.Default()
	}
	return &Connection{
		ws:     ws,
		send:   make(chan []byte, 256),
		logger: logger,
	}
}

// ReadPump reads messages until the peer goes away
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.ws.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Printf("[HTTP] Error reading message: %v", err)
			}
			return
		}
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages until Close is called
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for message := range c.send {
		w, err := c.ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}
	c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendMessage queues a JSON message. A peer that does not keep up is
// disconnected.
func (c *Connection) SendMessage(msg any) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- b:
	default:
		c.ws.Close()
	}
	return nil
}

// Close stops the write pump. No message may be sent afterwards.
func (c *Connection) Close() {
	c.once.Do(func() { close(c.send) })
}

// MessageHandler handles the messages read from a connection
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
