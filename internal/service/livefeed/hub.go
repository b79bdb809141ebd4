package livefeed

import (
	"context"
	"sync"

	"FishCast/internal/domain/models"
	domsvc "FishCast/internal/domain/service"
	"FishCast/pkg/logger"
)

const (
	MessageTypePredictionRun = "prediction_run"
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
)

// Message is the envelope written to every WebSocket client.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub fans prediction runs out to connected dashboard clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	log        *logger.Logger
	mu         sync.RWMutex
}

var _ domsvc.LiveFeed = (*Hub)(nil)

// NewHub creates a hub whose broadcast queue holds buffer messages.
func NewHub(l *logger.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, buffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        l,
	}
}

// RunWithContext serves registrations and broadcasts until ctx is done.
// Lifecycle events take priority over broadcasts so a departing client is
// never written to.
func (h *Hub) RunWithContext(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.Register:
			h.add(c)
			continue
		case c := <-h.Unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.Register:
			h.add(c)
		case c := <-h.Unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Broadcast queues a completed run for delivery. When the queue is full the
// run is dropped; the live feed is best effort and never blocks a request.
func (h *Hub) Broadcast(run *models.PredictionRun) {
	if run == nil {
		return
	}
	msg := Message{Type: MessageTypePredictionRun, Data: models.NewPredictionRunDTO(run)}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("live feed queue full, dropping run", logger.String("run_id", run.ID))
	}
}

// Done is closed once RunWithContext returns.
func (h *Hub) Done() <-chan struct{} { return h.done }

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("live feed client connected", logger.Int("clients", n))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("live feed client disconnected", logger.Int("clients", n))
}

func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow client: drop it rather than stall everyone else.
			delete(h.clients, c)
			close(c.send)
			h.log.Warn("live feed client too slow, disconnected")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
