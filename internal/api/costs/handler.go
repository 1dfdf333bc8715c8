package costs

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"costwatch/internal/domain/opportunity"
	"costwatch/internal/metrics"
	"costwatch/internal/services/costreport"
	"costwatch/pkg/errors"
	"costwatch/pkg/logger"
)

const dateLayout = "2006-01-02"

// Service is the slice of the cost report service the handler consumes
type Service interface {
	Summary(ctx context.Context, r costreport.Range) (opportunity.Summary, error)
	SimpleSummary(ctx context.Context) (opportunity.Summary, error)
	AnalyzeByDateRange(ctx context.Context, r costreport.Range, groupBy opportunity.GroupBy) ([]opportunity.BucketSummary, error)
}

// Handler serves the cost analytics endpoints
type Handler struct {
	service Service
	log     *logger.Logger
}

// New creates a new costs handler
func New(service Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With("component", "costs_api"),
	}
}

// RegisterRoutes attaches the cost endpoints to the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/costs/summary", h.HandleSummary)
	mux.HandleFunc("GET /api/v1/costs/summary/simple", h.HandleSimpleSummary)
	mux.HandleFunc("GET /api/v1/costs/analyze", h.HandleAnalyze)
}

// HandleSummary returns the cost summary for a date range.
// Query params: start_date, end_date (YYYY-MM-DD, both optional).
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), rng)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, summary)
}

// HandleSimpleSummary returns the always-current rollup over all records
func (h *Handler) HandleSimpleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.SimpleSummary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, summary)
}

// analyzeResponse wraps the bucket list so the payload stays an object
type analyzeResponse struct {
	GroupBy string                      `json:"group_by"`
	Buckets []opportunity.BucketSummary `json:"buckets"`
}

// HandleAnalyze returns per-bucket summaries for a date range.
// Query params: start_date, end_date (YYYY-MM-DD), group_by (day|week|month).
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	groupBy, err := opportunity.ParseGroupBy(r.URL.Query().Get("group_by"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	buckets, err := h.service.AnalyzeByDateRange(r.Context(), rng, groupBy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if buckets == nil {
		buckets = []opportunity.BucketSummary{}
	}

	h.writeJSON(w, r, http.StatusOK, analyzeResponse{
		GroupBy: string(groupBy),
		Buckets: buckets,
	})
}

// parseRange reads the optional start_date/end_date query params. Absent
// params stay zero so the service applies its default window.
func parseRange(r *http.Request) (costreport.Range, error) {
	var rng costreport.Range

	q := r.URL.Query()
	if raw := q.Get("start_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return rng, errors.Wrapf(errors.ErrInvalidInput, "start_date %q is not a valid YYYY-MM-DD date", raw)
		}
		rng.Start = t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return rng, errors.Wrapf(errors.ErrInvalidInput, "end_date %q is not a valid YYYY-MM-DD date", raw)
		}
		rng.End = t
	}

	return rng, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Errorw("Failed to encode response", "path", r.URL.Path, "error", err)
	}
	metrics.HTTPRequests.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrInvalidRange),
		errors.Is(err, errors.ErrInvalidGroupBy),
		errors.Is(err, errors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		h.log.Errorw("Request failed", "path", r.URL.Path, "error", err)
	}

	h.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}
