package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/phoenix4012/souchier/pkg/catalog"
)

func TestObserveLoad(t *testing.T) {
	m := New()

	m.ObserveLoad(catalog.Catalog{{}, {}, {}}, nil, 20*time.Millisecond)
	require.Equal(t, 3.0, testutil.ToFloat64(m.catalogRecords))
	require.InDelta(t, 0.02, testutil.ToFloat64(m.loadSeconds), 1e-9)

	m.ObserveLoad(nil, errors.New("unreachable"), time.Second)
	require.Equal(t, 0.0, testutil.ToFloat64(m.catalogRecords))
	require.Equal(t, 1.0, testutil.ToFloat64(m.loadFailures))
}

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest("/v1/strains", http.StatusOK, time.Millisecond)
	m.ObserveRequest("/v1/strains", http.StatusOK, time.Millisecond)
	m.ObserveRequest("/v1/strains", http.StatusBadRequest, time.Millisecond)
	m.ObserveExport("csv")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/v1/strains", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/v1/strains", "400")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("csv")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.sessions))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveExport("json")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `souchier_exports_total{format="json"} 1`)
	require.Contains(t, string(body), "go_goroutines")
}
