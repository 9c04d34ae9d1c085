package session

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

var testCatalog = catalog.Catalog{
	{Type: "GRAM+", NomBacterie: "Escherichia coli", LieuSouchier: "D-1", RepiquageNecessaire: "Oui"},
	{Type: "Levure", NomBacterie: "Candida albicans", LieuSouchier: "F-2", RepiquageNecessaire: "Oui"},
	{Type: "Levure", NomBacterie: "Pichia pastoris", LieuSouchier: "F-5", RepiquageNecessaire: "Non"},
}

type staticCatalog struct {
	cat catalog.Catalog
	err error
}

func (s staticCatalog) Load(ctx context.Context) (catalog.Catalog, error) { return s.cat, s.err }

type gaugeRecorder struct{ open atomic.Int32 }

func (g *gaugeRecorder) SessionOpened() { g.open.Add(1) }
func (g *gaugeRecorder) SessionClosed() { g.open.Add(-1) }

// startServer runs a hub and a test server; both stop at test cleanup.
func startServer(t *testing.T, catalogs CatalogProvider) (*httptest.Server, *Hub, *gaugeRecorder) {
	t.Helper()

	recorder := &gaugeRecorder{}
	hub := NewHub(recorder, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(catalogs, hub, nil).HandleWebSocket))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, hub, recorder
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSession_OverviewThenFilter(t *testing.T) {
	srv, _, _ := startServer(t, staticCatalog{cat: testCatalog})
	conn := dial(t, srv)

	first := readMessage(t, conn)
	require.Equal(t, TypeSummary, first.Type)
	require.True(t, first.Summary.Overview)
	require.Equal(t, 3, first.Summary.Filtered)

	require.NoError(t, conn.WriteJSON(catalog.Criteria{Types: []string{"Levure"}, Search: "CANDIDA"}))
	filtered := readMessage(t, conn)
	require.Equal(t, TypeSummary, filtered.Type)
	require.False(t, filtered.Summary.Overview)
	require.Equal(t, 1, filtered.Summary.Filtered)
	require.Equal(t, "Candida albicans", filtered.Summary.Records[0].NomBacterie)
	require.Equal(t, 1, filtered.Summary.RepiquageOui)
}

func TestSession_InvalidCriteriaKeepsConnection(t *testing.T) {
	srv, _, _ := startServer(t, staticCatalog{cat: testCatalog})
	conn := dial(t, srv)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := readMessage(t, conn)
	require.Equal(t, TypeError, msg.Type)
	require.Contains(t, msg.Message, "invalid criteria")

	require.NoError(t, conn.WriteJSON(map[string]string{"repiquage": "souvent"}))
	msg = readMessage(t, conn)
	require.Equal(t, TypeError, msg.Type)
	require.Contains(t, msg.Message, "invalid repiquage")

	require.NoError(t, conn.WriteJSON(catalog.Criteria{Repiquage: "Non"}))
	msg = readMessage(t, conn)
	require.Equal(t, TypeSummary, msg.Type)
	require.Equal(t, 1, msg.Summary.Filtered)
}

func TestSession_CriteriaArePerConnection(t *testing.T) {
	srv, hub, recorder := startServer(t, staticCatalog{cat: testCatalog})
	a := dial(t, srv)
	b := dial(t, srv)
	readMessage(t, a)
	readMessage(t, b)

	require.Eventually(t, func() bool { return hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return recorder.open.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteJSON(catalog.Criteria{Types: []string{"GRAM+"}}))
	require.Equal(t, 1, readMessage(t, a).Summary.Filtered)

	require.NoError(t, b.WriteJSON(catalog.Criteria{Repiquage: "Oui"}))
	require.Equal(t, 2, readMessage(t, b).Summary.Filtered)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSession_UnavailableCatalog(t *testing.T) {
	srv, _, _ := startServer(t, staticCatalog{err: errors.New("failed to load catalog from literal: boom")})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body["message"], "boom")
}

func TestHub_ShutdownClosesSessions(t *testing.T) {
	recorder := &gaugeRecorder{}
	hub := NewHub(recorder, nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(http.HandlerFunc(NewHandler(staticCatalog{cat: testCatalog}, hub, nil).HandleWebSocket))
	defer srv.Close()

	conn := dial(t, srv)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-stopped

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	require.Equal(t, 0, hub.Count())
	require.Equal(t, int32(0), recorder.open.Load())
}

func TestHub_ShutdownClosesQueuedSessions(t *testing.T) {
	accepted := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- conn
	}))
	defer srv.Close()

	client := dial(t, srv)
	serverConn := <-accepted

	recorder := &gaugeRecorder{}
	hub := NewHub(recorder, nil)
	// Queued before Run sees the cancellation.
	hub.register <- serverConn

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	require.False(t, hub.add(serverConn))
	require.Equal(t, 0, hub.Count())
	require.Equal(t, int32(0), recorder.open.Load())

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := client.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	require.False(t, errors.As(err, &netErr) && netErr.Timeout(), "queued connection was left open")
}
