package chiplugin

import (
	"errors"
	"net/http"

	"routeplug/internal/pkg/render"
)

var (
	ErrInitWithApp       = errors.New("chiplugin: Init is only called for a plugin-created app; drop App or Init")
	ErrAlreadyApplied    = errors.New("chiplugin: plugin already applied")
	ErrUnsupportedMethod = errors.New("unsupported http method")
	ErrHandlerNotFound   = errors.New("controller handler not found")
	ErrNotMiddleware     = errors.New("module does not implement Middleware")
	ErrNoExtractor       = errors.New("chiplugin: Extractor is required")
	ErrDuplicateRoute    = errors.New("route already bound")
	ErrControllerType    = errors.New("controller instance does not match module type")
)

// ErrorHandler receives every error passed to a middleware continuation and
// every error returned by a per-request factory. It is the host's error
// pipeline: the plugin hands errors over unchanged.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// StatusCoder lets an error choose the response status used by DefaultErrorHandler.
type StatusCoder interface {
	StatusCode() int
}

type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.code }

// StatusError returns an error carrying an HTTP status. An empty msg uses the
// status text.
func StatusError(code int, msg string) error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &statusError{code: code, msg: msg}
}

// DefaultErrorHandler writes a JSON error. The status comes from a StatusCoder
// in the error chain, otherwise 500. Server errors never expose the message.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var sc StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() >= 400 {
		status = sc.StatusCode()
	}

	msg := http.StatusText(status)
	if status < http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}
	render.ChiErr(w, status, msg)
}
