package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starford/resource-api/internal/apperr"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    apperr.Code `json:"code" example:"Resource.NotFound"`
	Message string      `json:"message" example:"Resource not found"`
	Details any         `json:"details,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

// ErrorHandler is the single place where failures become HTTP responses.
type ErrorHandler struct {
	logger      *slog.Logger
	development bool
}

// NewErrorHandler creates an ErrorHandler. In development mode responses
// include the stack and logs carry the full error record.
func NewErrorHandler(logger *slog.Logger, development bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger, development: development}
}

// Handle normalizes failure, logs it and writes the error response.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, failure any) {
	ae := apperr.From(failure)
	h.log(r, ae)

	body := ErrorResponse{
		Code:    ae.Code,
		Message: ae.Message,
		Details: ae.Details,
	}
	if h.development {
		body.Stack = ae.Stack
	}
	writeJSON(w, ae.Status, body)
}

// HandleError adapts Handle to the validation middleware callback.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	h.Handle(w, r, err)
}

func (h *ErrorHandler) log(r *http.Request, ae *apperr.Error) {
	if !h.development {
		h.logger.Error(fmt.Sprintf("[%s] %s", ae.Code, ae.Message))
		return
	}
	h.logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("code", string(ae.Code)),
		slog.Int("status", ae.Status),
		slog.String("message", ae.Message),
		slog.Any("details", ae.Details),
		slog.String("stack", ae.Stack),
	)
}

// NotFound answers unmatched routes and methods with Common.NotFound.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r, apperr.NotFound(map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
	}))
}

// Recover turns panics in downstream handlers into error responses.
func (h *ErrorHandler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.Handle(w, r, rec)
		}()
		next.ServeHTTP(w, r)
	})
}

// handlerFunc is an http handler that reports failure by returning it.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap forwards a returned error to the ErrorHandler.
func (h *ErrorHandler) wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.Handle(w, r, err)
		}
	}
}
