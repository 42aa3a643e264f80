package http

import (
	"encoding/json"
	"net/http"
)

const (
	headerContentType  = "Content-Type"
	headerCacheControl = "Cache-Control"

	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Responses may carry tokens, so none of them are cacheable.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.Header().Set(headerCacheControl, "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set(headerContentType, contentTypeText)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
