package events

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const queueSize = 256

// Hub fans outbound events to connected websocket clients. Core services
// only append to the queue; a single dispatcher goroutine drains it and
// writes to sockets, so a slow consumer can never stall a booking mutation.
type Hub struct {
	queue chan Event
	log   zerolog.Logger

	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		queue: make(chan Event, queueSize),
		log:   log.With().Str("component", "events").Logger(),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Emit enqueues an event without blocking. When the queue is full the event
// is dropped and logged; realtime delivery is best-effort.
func (h *Hub) Emit(event Event) {
	select {
	case h.queue <- event:
	default:
		h.log.Warn().Str("event", event.Name).Msg("event queue full, dropping")
	}
}

// Run drains the queue until it is closed. Call in its own goroutine.
func (h *Hub) Run() {
	for event := range h.queue {
		h.broadcast(event)
	}
}

// Close stops the dispatcher. Emit must not be called afterwards.
func (h *Hub) Close() {
	close(h.queue)
}

func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.log.Debug().Err(err).Msg("dropping dead websocket connection")
			h.Unregister(conn)
		}
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}
