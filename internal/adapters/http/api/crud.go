// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/okian/crudapi/internal/domain/model"
)

// RootHandler handles the service greeting.
type RootHandler struct {
	deps Dependencies
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps Dependencies) *RootHandler {
	return &RootHandler{deps: deps}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if rejectHead(w, r, "api.root", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Root(r.Context()))
}

// CrudHandler handles the five operations on /crud.
type CrudHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewCrudHandler creates a new CRUD handler.
func NewCrudHandler(deps Dependencies) *CrudHandler {
	return &CrudHandler{deps: deps}
}

// HandleGet handles GET /crud requests. The body is never read.
func (h *CrudHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if rejectHead(w, r, opTag(model.OperationGet), crudAllow) {
		return
	}
	h.acknowledge(w, r, model.OperationGet)
}

// HandleDelete handles DELETE /crud requests. The body is never read.
func (h *CrudHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.acknowledge(w, r, model.OperationDelete)
}

// HandleWrite returns the handler for POST, PUT or PATCH /crud. All three
// share semantics and differ only in the reported operation.
func (h *CrudHandler) HandleWrite(op model.Operation) http.HandlerFunc {
	tag := opTag(op)
	return func(w http.ResponseWriter, r *http.Request) {
		if h.maxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		}

		item, err := decodeItem(tag, op, r)
		if err != nil {
			writeKindError(w, err)
			return
		}

		ack, err := h.deps.AcknowledgeItem(r.Context(), op, item)
		if err != nil {
			writeKindError(w, WrapKind(tag, ErrInternal, err))
			return
		}
		writeJSON(w, http.StatusOK, ack)
	}
}

func (h *CrudHandler) acknowledge(w http.ResponseWriter, r *http.Request, op model.Operation) {
	ack, err := h.deps.Acknowledge(r.Context(), op)
	if err != nil {
		writeKindError(w, WrapKind(opTag(op), ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// crudAllow lists the methods served on /crud.
const crudAllow = "DELETE, GET, PATCH, POST, PUT"

// rejectHead answers HEAD with 405. GET patterns on the mux also match HEAD,
// but only GET is served.
func rejectHead(w http.ResponseWriter, r *http.Request, op, allow string) bool {
	if r.Method != http.MethodHead {
		return false
	}
	w.Header().Set("Allow", allow)
	writeKindError(w, NewKind(op, ErrMethodNotAllowed))
	return true
}

func opTag(op model.Operation) string {
	return "api.crud_" + strings.ToLower(op.String())
}
