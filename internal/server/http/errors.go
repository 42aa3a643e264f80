package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gane/internal/common"
	"github.com/dmitrijs2005/gane/internal/logging"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgInvalidCredentials = "Invalid email or password"
	msgUnauthorized       = "Unauthorized"
	msgEmailTaken         = "Email already registered"
	msgInternal           = "Internal error"
)

// HTTPError is an error with a status code and a message safe to send to the
// client. The cause, if any, is only logged.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

func (he *HTTPError) Error() string {
	return he.Message
}

func (he *HTTPError) Unwrap() error {
	return he.cause
}

func newHTTPError(code int, message string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Code: code, Message: message}
}

func errBadRequest(cause error) *HTTPError {
	return newHTTPError(http.StatusBadRequest, msgInvalidBody, cause)
}

// appHandler is a handler that reports failures by returning them.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// makeHandler adapts an appHandler to http.HandlerFunc. Every returned error
// maps to exactly one status code and a {"error": ...} body.
func makeHandler(log logging.Logger, handler appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}

		code, message := classify(err)

		ctx := r.Context()
		if code >= http.StatusInternalServerError {
			log.Error(ctx, "request failed", "path", r.URL.Path, "method", r.Method, "error", err)
		} else {
			log.Debug(ctx, "request rejected", "path", r.URL.Path, "method", r.Method, "code", code, "msg", message)
		}

		writeError(w, code, message)
	}
}

func classify(err error) (int, string) {
	var httpErr *HTTPError
	var validationErr *common.ValidationError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, msgEmailTaken
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
