// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/crudapi/internal/domain/model"
	"github.com/okian/crudapi/pkg/logger"
	"github.com/okian/crudapi/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Root(ctx context.Context) model.RootStatus
	Acknowledge(ctx context.Context, op model.Operation) (model.Ack, error)
	AcknowledgeItem(ctx context.Context, op model.Operation, item *model.ItemPayload) (model.ItemAck, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler   *RootHandler
	crudHandler   *CrudHandler
	healthHandler *HealthHandler
	logger        logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMaxBodyBytes caps request bodies on write routes. Zero or less disables the cap.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) {
		s.crudHandler.maxBodyBytes = n
	}
}

// WithLogger enables per-request debug logging.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		rootHandler:   NewRootHandler(deps),
		crudHandler:   NewCrudHandler(deps),
		healthHandler: NewHealthHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /{$}", s.instrument("root", s.rootHandler.HandleRoot))

	mux.HandleFunc("GET /crud", s.instrument("crud", s.crudHandler.HandleGet))
	mux.HandleFunc("POST /crud", s.instrument("crud", s.crudHandler.HandleWrite(model.OperationPost)))
	mux.HandleFunc("PUT /crud", s.instrument("crud", s.crudHandler.HandleWrite(model.OperationPut)))
	mux.HandleFunc("PATCH /crud", s.instrument("crud", s.crudHandler.HandleWrite(model.OperationPatch)))
	mux.HandleFunc("DELETE /crud", s.instrument("crud", s.crudHandler.HandleDelete))

	mux.HandleFunc("GET /healthz", s.instrument("healthz", s.healthHandler.HandleHealth))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	if s.logger != nil {
		h = LoggingMiddleware(s.logger, h)
	}
	return MetricsMiddleware(h, endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeKindError maps a sentinel kind onto its HTTP status.
func writeKindError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err)
	case errors.Is(err, ErrUnprocessable):
		writeError(w, http.StatusUnprocessableEntity, "unprocessable_entity", err)
	case errors.Is(err, ErrMethodNotAllowed):
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
