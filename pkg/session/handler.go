package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/catalog"
	"github.com/phoenix4012/souchier/pkg/config"
	"github.com/phoenix4012/souchier/pkg/httpx"
)

// Message types sent to the client
const (
	TypeSummary = "summary"
	TypeError   = "error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// No Origin header = non-browser client
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
}

// CatalogProvider returns the session catalog or a load error.
type CatalogProvider interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// Message is one server frame.
type Message struct {
	Type    string           `json:"type"`
	Summary *catalog.Summary `json:"summary,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Handler serves /v1/ws. Each connection is one session: the client sends
// a criteria object, the server answers with the matching summary.
type Handler struct {
	catalogs CatalogProvider
	hub      *Hub
	logger   *zap.Logger
}

// NewHandler creates a session handler
func NewHandler(catalogs CatalogProvider, hub *Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{catalogs: catalogs, hub: hub, logger: logger}
}

// HandleWebSocket upgrades the request and runs the session until the
// client leaves or the hub shuts down.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// A failed load halts the session before it starts.
	cat, err := h.catalogs.Load(r.Context())
	if err != nil {
		httpx.RespondUnavailable(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	if !h.hub.add(conn) {
		conn.Close()
		return
	}
	defer h.hub.remove(conn)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go keepAlive(ctx, conn)

	conn.SetReadLimit(config.WSMaxMessageBytes)
	conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
		return nil
	})

	// Start in overview mode.
	criteria := catalog.Criteria{}.Normalize()
	if err := h.send(conn, summaryMessage(cat, criteria)); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))

		next, err := decodeCriteria(data)
		if err != nil {
			if err := h.send(conn, Message{Type: TypeError, Message: err.Error()}); err != nil {
				return
			}
			continue
		}
		criteria = next

		if err := h.send(conn, summaryMessage(cat, criteria)); err != nil {
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, msg Message) error {
	conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("WebSocket write error", zap.Error(err))
		return err
	}
	return nil
}

func summaryMessage(cat catalog.Catalog, criteria catalog.Criteria) Message {
	summary := catalog.Summarize(cat, criteria)
	return Message{Type: TypeSummary, Summary: &summary}
}

func decodeCriteria(data []byte) (catalog.Criteria, error) {
	var c catalog.Criteria
	if err := json.Unmarshal(data, &c); err != nil {
		return catalog.Criteria{}, fmt.Errorf("invalid criteria: %w", err)
	}
	if err := c.Validate(); err != nil {
		return catalog.Criteria{}, err
	}
	return c.Normalize(), nil
}

// keepAlive pings until ctx ends. WriteControl may run concurrently with
// the session's own writes.
func keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(config.WSPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(config.WSWriteDeadline)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
