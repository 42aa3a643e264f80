package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gane/internal/common"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// decodeJSON reads exactly one JSON value of at most maxBytes from the body.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errBadRequest(errors.New("empty body"))
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	if err := dec.Decode(dst); err != nil {
		return errBadRequest(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errBadRequest(errors.New("extra data after JSON object"))
	}
	return nil
}

// bearerToken returns the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrorUnauthorized
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	return token, nil
}
