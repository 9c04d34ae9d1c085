package server

import (
	"context"
	_ "embed"
	"encoding/binary"
	"fmt"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/catalog"
	"github.com/phoenix4012/souchier/pkg/export"
	"github.com/phoenix4012/souchier/pkg/httpx"
	"github.com/phoenix4012/souchier/pkg/session"
	"github.com/phoenix4012/souchier/pkg/telemetry"
)

// Version is reported by the health endpoint.
const Version = "2.0.0"

//go:embed web/dashboard.html
var dashboardHTML []byte

// CatalogProvider returns the session catalog or a load error.
type CatalogProvider interface {
	Load(ctx context.Context) (catalog.Catalog, error)
	SourceName() string
}

// CatalogResponse is the body of GET /v1/catalog.
type CatalogResponse struct {
	Source  string          `json:"source"`
	Total   int             `json:"total"`
	Records catalog.Catalog `json:"records"`
}

// TypesResponse is the body of GET /v1/types.
type TypesResponse struct {
	Types  []string            `json:"types"`
	ByType []catalog.TypeCount `json:"by_type"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Source  string `json:"source"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// Handler serves the catalog data routes.
type Handler struct {
	catalogs  CatalogProvider
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	startTime time.Time
}

// NewHandler creates the data route handler.
func NewHandler(catalogs CatalogProvider, metrics *telemetry.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{catalogs: catalogs, metrics: metrics, logger: logger, startTime: time.Now()}
}

// load returns the catalog, answering 503 itself when it is unavailable.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (catalog.Catalog, bool) {
	cat, err := h.catalogs.Load(r.Context())
	if err != nil {
		httpx.RespondUnavailable(w, err)
		return nil, false
	}
	return cat, true
}

// notModified sets the catalog ETag and reports whether the client copy is current.
func notModified(w http.ResponseWriter, r *http.Request, cat catalog.Catalog) bool {
	etag := fingerprint(cat)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// HandleCatalog handles GET /v1/catalog
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.load(w, r)
	if !ok || notModified(w, r, cat) {
		return
	}
	httpx.RespondJSON(w, http.StatusOK, CatalogResponse{
		Source:  h.catalogs.SourceName(),
		Total:   len(cat),
		Records: cat,
	})
}

// HandleStrains handles GET /v1/strains?type=..&repiquage=..&q=..
func (h *Handler) HandleStrains(w http.ResponseWriter, r *http.Request) {
	criteria, err := httpx.CriteriaFromQuery(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}
	cat, ok := h.load(w, r)
	if !ok {
		return
	}

	start := time.Now()
	summary := catalog.Summarize(cat, criteria)
	if h.metrics != nil {
		h.metrics.ObserveFilter(time.Since(start))
	}

	h.logger.Debug("Filtered catalog",
		zap.Strings("types", criteria.Types),
		zap.String("repiquage", criteria.Repiquage),
		zap.String("search", criteria.Search),
		zap.Int("matches", summary.Filtered))

	httpx.RespondJSON(w, http.StatusOK, summary)
}

// HandleTypes handles GET /v1/types
func (h *Handler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.load(w, r)
	if !ok || notModified(w, r, cat) {
		return
	}
	summary := catalog.Summarize(cat, catalog.Criteria{})
	httpx.RespondJSON(w, http.StatusOK, TypesResponse{
		Types:  catalog.Types(cat),
		ByType: summary.ByType,
	})
}

// HandleHealth returns service health status. A failed catalog load makes
// the service unavailable.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Source:  h.catalogs.SourceName(),
	}
	status := http.StatusOK

	cat, err := h.catalogs.Load(r.Context())
	if err != nil {
		response.Status = "unavailable"
		response.Error = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		response.Records = len(cat)
	}

	httpx.RespondJSON(w, status, response)
}

// handleDashboard serves the embedded viewer page.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(dashboardHTML)
}

// fingerprint hashes the catalog content into a strong ETag.
func fingerprint(cat catalog.Catalog) string {
	d := xxhash.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(cat)))
	_, _ = d.Write(n[:])
	for _, r := range cat {
		for _, f := range r.Fields() {
			_, _ = d.WriteString(f)
			_, _ = d.Write([]byte{0})
		}
	}
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", d.Sum64()))
}

// SetupRoutes configures all HTTP routes for the server.
func SetupRoutes(
	router *mux.Router,
	api *Handler,
	exportHandler *export.Handler,
	sessionHandler *session.Handler,
	metrics *telemetry.Metrics,
	port string,
) {
	// CORS middleware for API access
	router.Use(corsMiddleware(port))
	if metrics != nil {
		router.Use(metrics.Middleware)
	}

	v1 := router.PathPrefix("/v1").Subrouter()

	// Catalog data
	v1.HandleFunc("/catalog", api.HandleCatalog).Methods("GET")
	v1.HandleFunc("/strains", api.HandleStrains).Methods("GET")
	v1.HandleFunc("/types", api.HandleTypes).Methods("GET")
	v1.HandleFunc("/export", exportHandler.HandleExport).Methods("GET")
	v1.HandleFunc("/health", api.HandleHealth).Methods("GET")

	// Live session
	v1.HandleFunc("/ws", sessionHandler.HandleWebSocket).Methods("GET")

	// Prometheus exposition
	if metrics != nil {
		router.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	router.HandleFunc("/", handleDashboard).Methods("GET")
}

// corsMiddleware creates CORS middleware that restricts to localhost origins only.
func corsMiddleware(port string) func(http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:" + port: true,
		"http://127.0.0.1:" + port: true,
		"http://localhost:3000":    true,
		"http://127.0.0.1:3000":    true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Only set CORS headers for allowed origins
			if allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
				w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, ETag")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
