package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"movie-ratings/internal/models"
	"movie-ratings/internal/services"
	"movie-ratings/pkg/logging"
	"movie-ratings/pkg/metrics"
)

// HealthChecker is implemented by backing stores that can be pinged.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ViewHandler exposes the view catalog and rendered views as JSON.
type ViewHandler struct {
	views    *services.ViewService
	datasets *services.DatasetService
	store    HealthChecker
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewViewHandler creates a new view handler. store may be nil when the
// dataset comes from a file.
func NewViewHandler(
	viewService *services.ViewService,
	datasetService *services.DatasetService,
	store HealthChecker,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *ViewHandler {
	return &ViewHandler{
		views:    viewService,
		datasets: datasetService,
		store:    store,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// ListViews handles GET /api/views
func (h *ViewHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, r, map[string]interface{}{"views": h.views.List()}, http.StatusOK)
}

// GetView handles GET /api/views/{view}
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["view"]

	res, err := h.views.Render(r.Context(), name)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, r, res, http.StatusOK)
}

// GetDashboard handles GET /api/dashboard: every view in catalog order.
func (h *ViewHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	results, err := h.views.RenderAll(r.Context())
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, r, map[string]interface{}{"views": results}, http.StatusOK)
}

// GetDataset handles GET /api/dataset
func (h *ViewHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	summary, err := h.datasets.Summary()
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendJSON(w, r, summary, http.StatusOK)
}

// ReloadDataset handles POST /api/dataset/reload
func (h *ViewHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.datasets.Load(r.Context()); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.GetDataset(w, r)
}

// HealthCheck handles GET /health
func (h *ViewHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"dataset":   "loaded",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if _, err := h.datasets.Current(); err != nil {
		status["status"] = "degraded"
		status["dataset"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	if h.store != nil {
		if err := h.store.HealthCheck(ctx); err != nil {
			h.logger.Warn(ctx, "[HEALTH_CHECK] Store unreachable", logging.Fields{
				"error": err.Error(),
			})
			status["status"] = "degraded"
			status["store"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{
		"status": status["status"],
	})
	h.sendJSON(w, r, status, code)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	var unknown *models.UnknownViewError
	var schema *models.SchemaError

	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound, "unknown_view"
	case errors.As(err, &schema):
		return http.StatusUnprocessableEntity, "schema_error"
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return http.StatusServiceUnavailable, "dataset_not_loaded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (h *ViewHandler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code, errorType := statusFor(err)
	h.metrics.RecordAPIError(errorType, routeTemplate(r))

	message := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "[API_ERROR] Request failed", logging.Fields{
			"path": r.URL.Path,
		}, err)
		message = "internal server error"
	}

	h.sendError(w, r, message, code)
}

// sendJSON sends a JSON response. The body is encoded before the status is
// written so an encoding failure still reaches the client as a 500.
func (h *ViewHandler) sendJSON(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Error(r.Context(), "[API_ENCODE_ERROR] Failed to encode response", logging.Fields{
			"path": r.URL.Path,
		}, err)
		h.metrics.RecordAPIError("encode_error", routeTemplate(r))
		if _, isError := data.(ErrorResponse); !isError {
			h.sendError(w, r, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}

// sendError sends an error response
func (h *ViewHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Code:      statusCode,
		RequestID: logging.RequestIDFrom(r.Context()),
	}

	h.sendJSON(w, r, response, statusCode)
}

// Middleware assigns every request an ID, reusing an inbound X-Request-ID,
// and records request count and latency per route template.
func (h *ViewHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		r = r.WithContext(logging.WithRequestID(r.Context(), requestID))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		endpoint := routeTemplate(r)
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
		h.metrics.RecordAPIRequest(endpoint, r.Method, strconv.Itoa(rec.status))

		h.logger.Debug(r.Context(), "[API_REQUEST] Request served", logging.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": duration.Milliseconds(),
		})
	})
}

// routeTemplate keeps metric label cardinality bounded by using the mux
// path template rather than the raw path.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RegisterRoutes registers all view API routes
func (h *ViewHandler) RegisterRoutes(router *mux.Router) {
	router.Use(h.Middleware)

	router.HandleFunc("/api/views", h.ListViews).Methods(http.MethodGet)
	router.HandleFunc("/api/views/{view}", h.GetView).Methods(http.MethodGet)
	router.HandleFunc("/api/dashboard", h.GetDashboard).Methods(http.MethodGet)
	router.HandleFunc("/api/dataset", h.GetDataset).Methods(http.MethodGet)
	router.HandleFunc("/api/dataset/reload", h.ReloadDataset).Methods(http.MethodPost)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/docs/openapi.json", OpenAPIDocument).Methods(http.MethodGet)
	router.HandleFunc("/api/docs", SwaggerUI).Methods(http.MethodGet)
}
