// internal/notify/hub.go
//
// Websocket push of game events.
// Responsibilities:
//   - Upgrade GET /games/{id}/ws requests and keep one room of clients per game.
//   - Fan every event out to the room of its game, marshalled once.
//   - Keep idle connections alive with ping/pong and drop slow clients.
//
// Notes:
//   - Each client owns a buffered send channel drained by its writer goroutine.
//     Notify never blocks: a client whose buffer is full is disconnected.
//   - The only reads are control frames; anything a client sends is ignored.
//   - A GameDeleted event closes the game's room after it is delivered.

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

type client struct {
	conn   *websocket.Conn
	gameID string
	send   chan []byte
}

// Hub tracks websocket subscribers per game.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]map[*client]struct{}
	closed   bool
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewHub creates a hub. allowedOrigin restricts the Origin header of upgrade
// requests; empty or "*" accepts any origin.
func NewHub(logger zerolog.Logger, allowedOrigin string) *Hub {
	h := &Hub{
		rooms: make(map[string]map[*client]struct{}),
		log:   logger.With().Str("component", "ws_hub").Logger(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		},
	}
	return h
}

// Serve upgrades the request and subscribes the connection to gameID. It
// blocks until the client goes away or the hub closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, gameID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.log.Warn().Err(err).Str("game_id", gameID).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, gameID: gameID, send: make(chan []byte, sendBuffer)}
	if !h.add(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.log.Debug().Str("game_id", gameID).Str("remote", conn.RemoteAddr().String()).Msg("websocket subscribed")

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	room, ok := h.rooms[c.gameID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.gameID] = room
	}
	room[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked detaches c and closes its send channel, at most once.
func (h *Hub) removeLocked(c *client) {
	room, ok := h.rooms[c.gameID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.gameID)
	}
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("game_id", c.gameID).Msg("websocket read")
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Notify pushes e to every subscriber of its game.
func (h *Hub) Notify(_ context.Context, e Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Error().Err(err).Str("event", string(e.Type)).Msg("marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[e.GameID] {
		select {
		case c.send <- msg:
		default:
			h.log.Warn().Str("game_id", e.GameID).Msg("dropping slow websocket client")
			h.removeLocked(c)
		}
	}
	if e.Type == GameDeleted {
		for c := range h.rooms[e.GameID] {
			h.removeLocked(c)
		}
	}
}

// Subscribers reports how many clients are watching gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[gameID])
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, room := range h.rooms {
		for c := range room {
			h.removeLocked(c)
		}
	}
}
