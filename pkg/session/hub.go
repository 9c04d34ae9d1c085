package session

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/config"
)

// Recorder is told when sessions open and close. Optional.
type Recorder interface {
	SessionOpened()
	SessionClosed()
}

// Hub tracks live websocket sessions so they can be counted and closed on
// shutdown. Sessions never share criteria; the hub holds no filter state.
type Hub struct {
	// Registered connections
	clients map[*websocket.Conn]bool

	register   chan *websocket.Conn
	unregister chan *websocket.Conn

	// done is closed when Run begins shutting down
	done chan struct{}
	// addMu lets shutdown wait out registrations already past the done check
	addMu sync.RWMutex

	recorder Recorder
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewHub creates a new session hub
func NewHub(recorder Recorder, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn, config.WSChannelBuffer),
		unregister: make(chan *websocket.Conn, config.WSChannelBuffer),
		done:       make(chan struct{}),
		recorder:   recorder,
		logger:     logger,
	}
}

// Run starts the hub's main loop; it returns when ctx is cancelled,
// closing every open connection, including ones still queued for registration.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			// Wait for adds that passed the done check before draining.
			h.addMu.Lock()
			h.addMu.Unlock()
			h.drainRegister()

			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
				h.closed()
			}
			h.mu.Unlock()
			return
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			count := len(h.clients)
			h.mu.Unlock()
			if h.recorder != nil {
				h.recorder.SessionOpened()
			}
			h.logger.Debug("Session opened", zap.Int("sessions", count))
		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				h.closed()
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Session closed", zap.Int("sessions", count))
		}
	}
}

// drainRegister closes connections queued but never counted.
func (h *Hub) drainRegister() {
	for {
		select {
		case conn := <-h.register:
			conn.Close()
		default:
			return
		}
	}
}

func (h *Hub) closed() {
	if h.recorder != nil {
		h.recorder.SessionClosed()
	}
}

// Count returns the number of open sessions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// add registers conn unless the hub has stopped.
func (h *Hub) add(conn *websocket.Conn) bool {
	h.addMu.RLock()
	defer h.addMu.RUnlock()

	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// remove unregisters conn; after shutdown the hub already closed it.
func (h *Hub) remove(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}
