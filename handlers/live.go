// handlers/live.go - websocket award feed
package handlers

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"parlez/engine"
)

// Hub fans engine award events out to the connected clients of each user,
// so the UI can show badge and point toasts as they happen.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: map[uint]map[*websocket.Conn]bool{}}
}

func (h *Hub) add(userID uint, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = map[*websocket.Conn]bool{}
	}
	h.conns[userID][c] = true
}

func (h *Hub) remove(userID uint, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], c)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Publish implements the engine's Notify hook.
func (h *Hub) Publish(userID uint, ev engine.AwardEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("ws: write to user %d failed: %v", userID, err)
		}
	}
}

// UpgradeRequired rejects plain HTTP requests on the websocket path.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// AwardsSocket keeps the connection open and streams award events; the
// client sends nothing of interest.
func AwardsSocket(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		var userID uint
		switch v := c.Locals("userId").(type) {
		case float64:
			userID = uint(v)
		case uint:
			userID = v
		default:
			c.Close()
			return
		}

		hub.add(userID, c)
		defer func() {
			hub.remove(userID, c)
			c.Close()
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
