package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/events"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one spectator connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// Hub fans arena events out to WebSocket spectators. A client either watches
// a single game or, with an empty game ID, every game.
type Hub struct {
	logger *zap.Logger

	// Registered clients by watched game ID.
	watchers map[string]map[*Client]bool

	broadcast  chan events.Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	clients atomic.Int64
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		watchers:   make(map[string]map[*Client]bool),
		broadcast:  make(chan events.Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, after
// closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ev := <-h.broadcast:
			h.broadcastEvent(ev)

		case <-ctx.Done():
			for _, clients := range h.watchers {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// Forward copies events from sub into the hub until the subscription closes
// or ctx is cancelled. It closes sub on return.
func (h *Hub) Forward(ctx context.Context, sub *events.Subscription) {
	defer sub.Close()
	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			h.Broadcast(ev)
		case <-ctx.Done():
			return
		}
	}
}

// Broadcast hands ev to the event loop. It is a no-op once the hub stopped.
func (h *Hub) Broadcast(ev events.Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	return int(h.clients.Load())
}

// ServeWS upgrades the request and registers the connection as a watcher of
// gameID ("" for all games).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		gameID: gameID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) registerClient(client *Client) {
	if h.watchers[client.gameID] == nil {
		h.watchers[client.gameID] = make(map[*Client]bool)
	}
	h.watchers[client.gameID][client] = true
	h.clients.Add(1)

	h.logger.Debug("websocket client registered",
		zap.String("game_id", client.gameID),
		zap.Int("watchers", len(h.watchers[client.gameID])))
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.watchers[client.gameID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	h.clients.Add(-1)

	if len(clients) == 0 {
		delete(h.watchers, client.gameID)
	}

	h.logger.Debug("websocket client unregistered",
		zap.String("game_id", client.gameID),
		zap.Int("watchers", len(clients)))
}

func (h *Hub) broadcastEvent(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	h.sendTo(h.watchers[ev.GameID], data)
	if ev.GameID != "" {
		h.sendTo(h.watchers[""], data)
	}
}

func (h *Hub) sendTo(clients map[*Client]bool, data []byte) {
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer.
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection so pongs and close frames are processed.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump writes one text frame per event and keeps the connection alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
