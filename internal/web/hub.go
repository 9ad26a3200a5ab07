// Package web publishes the simulation over HTTP: a WebSocket feed of
// snapshots, the latest state as JSON, Prometheus metrics and a health
// probe. The hub is an Observer and never writes to the engine.
package web

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/void-runner/internal/games/voidrun"
)

const (
	EventStats    = "stats"
	EventGameOver = "game_over"

	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	clientBuffer   = 32
	broadcastQueue = 64
)

// Message is the envelope sent to WebSocket clients.
type Message struct {
	Event string            `json:"event"`
	Data  voidrun.GameState `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to connected clients. Stats updates pass through
// a token bucket and are dropped when it is empty; game-over messages
// always go out.
type Hub struct {
	log     *log.Logger
	limiter *rate.Limiter

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	doneOnce   sync.Once

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  voidrun.GameState
	dropped int
}

// NewHub creates a hub delivering at most perSecond stats updates.
// perSecond <= 0 disables the limit.
func NewHub(perSecond float64, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond/10))
	}
	return &Hub{
		log:        logger,
		limiter:    rate.NewLimiter(limit, burst),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastQueue),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// Run pumps registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client connected", "remote", c.conn.RemoteAddr(), "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client disconnected", "clients", n)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow reader; drop it rather than stall everyone else
					delete(h.clients, c)
					close(c.send)
					h.log.Warn("dropping slow client", "remote", c.conn.RemoteAddr())
				}
			}
			h.mu.Unlock()
		}
	}
}

// OnStatsUpdate caches the snapshot and forwards it if the bucket has a
// token.
func (h *Hub) OnStatsUpdate(state voidrun.GameState) {
	h.mu.Lock()
	h.latest = state
	h.mu.Unlock()

	if !h.limiter.Allow() {
		h.countDrop()
		return
	}
	msg, err := encode(EventStats, state)
	if err != nil {
		h.log.Error("failed to encode snapshot", "err", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.countDrop()
	}
}

// OnGameOver caches the final snapshot and queues it unconditionally.
// It only gives up once the hub has stopped.
func (h *Hub) OnGameOver(state voidrun.GameState) {
	h.mu.Lock()
	h.latest = state
	h.mu.Unlock()

	msg, err := encode(EventGameOver, state)
	if err != nil {
		h.log.Error("failed to encode snapshot", "err", err)
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// stop releases publishers blocked on a hub that will never run again.
func (h *Hub) stop() {
	h.doneOnce.Do(func() { close(h.done) })
}

func (h *Hub) countDrop() {
	h.mu.Lock()
	h.dropped++
	h.mu.Unlock()
}

// Latest returns the most recent snapshot seen.
func (h *Hub) Latest() voidrun.GameState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Dropped returns how many stats updates were not broadcast.
func (h *Hub) Dropped() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encode(event string, state voidrun.GameState) ([]byte, error) {
	return json.Marshal(Message{Event: event, Data: state})
}

// attach registers conn and starts its pumps. Returns false if the hub
// has stopped.
func (h *Hub) attach(conn *websocket.Conn) bool {
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return false
	}
	go h.writePump(c)
	go h.readPump(c)
	return true
}

// readPump discards client input and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

var _ voidrun.Observer = (*Hub)(nil)
