package ws

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one connected browser tab, tagged with the user it belongs to.
type Client struct {
	Conn   Conn
	UserID string
}

type message struct {
	userIDs map[string]struct{} // nil means everyone
	data    []byte
}

// Hub fans events out to connected clients. All client bookkeeping happens on
// the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	outbound   chan message
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan message, 256),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				_ = c.Conn.Close()
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug().Str("user_id", c.UserID).Int("clients", len(h.clients)).Msg("ws client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				_ = c.Conn.Close()
			}

		case msg := <-h.outbound:
			for c := range h.clients {
				if msg.userIDs != nil {
					if _, ok := msg.userIDs[c.UserID]; !ok {
						continue
					}
				}
				if err := c.Conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
					_ = c.Conn.Close()
					delete(h.clients, c)
				}
			}
		}
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// BroadcastJSON queues payload for every client. Events are dropped rather
// than blocking the caller when the queue is full.
func (h *Hub) BroadcastJSON(payload interface{}) {
	h.enqueue(nil, payload)
}

// SendToUsers queues payload for the clients of the given users only.
func (h *Hub) SendToUsers(userIDs []string, payload interface{}) {
	if len(userIDs) == 0 {
		return
	}
	targets := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		targets[id] = struct{}{}
	}
	h.enqueue(targets, payload)
}

func (h *Hub) enqueue(targets map[string]struct{}, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("ws payload marshal failed")
		return
	}
	select {
	case h.outbound <- message{userIDs: targets, data: data}:
	default:
		h.log.Warn().Msg("ws queue full, event dropped")
	}
}

// Serve pumps reads until the socket closes, keeping the registration alive.
func (h *Hub) Serve(conn *websocket.Conn, userID string) {
	client := &Client{Conn: conn, UserID: userID}
	h.Register(client)
	defer h.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
