package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/phoenix4012/souchier/pkg/catalog"
	"github.com/phoenix4012/souchier/pkg/httpx"
)

var errMethodNotAllowed = errors.New("method not allowed")

// ErrUnsupportedFormat is returned for an export format other than csv or json.
var ErrUnsupportedFormat = errors.New("invalid format, must be 'csv' or 'json'")

// CatalogProvider returns the session catalog or a load error.
type CatalogProvider interface {
	Load(ctx context.Context) (catalog.Catalog, error)
}

// Recorder receives export counts. Optional.
type Recorder interface {
	ObserveExport(format string)
}

// Handler serves filtered downloads
type Handler struct {
	catalogs CatalogProvider
	recorder Recorder
	logger   *zap.Logger
}

// NewHandler creates a new export handler
func NewHandler(catalogs CatalogProvider, recorder Recorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{catalogs: catalogs, recorder: recorder, logger: logger}
}

// HandleExport handles GET /v1/export
// Query params:
//   - format: "csv" or "json" (default: csv)
//   - type, repiquage, q: filter criteria (see httpx.CriteriaFromQuery)
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.RespondError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	format := query.Get("format")
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatJSON {
		httpx.RespondError(w, http.StatusBadRequest, ErrUnsupportedFormat)
		return
	}

	criteria, err := httpx.CriteriaFromQuery(query)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}

	cat, err := h.catalogs.Load(r.Context())
	if err != nil {
		httpx.RespondUnavailable(w, err)
		return
	}

	summary := catalog.Summarize(cat, criteria)

	// Encode first so a failure can still produce a clean error response.
	var buf bytes.Buffer
	var result *Result
	if format == FormatJSON {
		result, err = WriteJSON(&buf, summary)
	} else {
		result, err = WriteCSV(&buf, summary.Records)
	}
	if err != nil {
		h.logger.Error("Export failed", zap.String("format", format), zap.Error(err))
		httpx.RespondError(w, http.StatusInternalServerError, err)
		return
	}

	if format == FormatJSON {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", FileNameJSON))
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", FileNameCSV))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Export write interrupted", zap.Error(err))
		return
	}

	if h.recorder != nil {
		h.recorder.ObserveExport(format)
	}
	h.logger.Info("Exported filtered view",
		zap.String("format", format),
		zap.Int("records", result.RecordsExported),
		zap.Int("total", summary.Total))
}
