package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gane/internal/common"
	"github.com/dmitrijs2005/gane/internal/logging"
	"github.com/dmitrijs2005/gane/internal/server/services"
)

// AuthService is the orchestration layer the handlers dispatch to.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Guest(ctx context.Context) (*services.AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*services.PublicUser, error)
	Logout(ctx context.Context) error
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Handler struct {
	auth         AuthService
	logger       logging.Logger
	maxBodyBytes int64
}

func NewHandler(auth AuthService, l logging.Logger, maxBodyBytes int64) *Handler {
	return &Handler{
		auth:         auth,
		logger:       l.With("module", "http_handler"),
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "Gane backend is running"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.logger.Info(r.Context(), "User registered", "user_id", result.User.ID)
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return newHTTPError(http.StatusUnauthorized, msgInvalidCredentials, err)
		}
		return err
	}

	h.logger.Info(r.Context(), "User logged in", "user_id", result.User.ID)
	writeJSON(w, http.StatusOK, result)
	return nil
}

// Guest ignores the request body.
func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) error {
	result, err := h.auth.Guest(r.Context())
	if err != nil {
		return err
	}

	h.logger.Info(r.Context(), "Guest user created", "user_id", result.User.ID)
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	token, err := bearerToken(r)
	if err != nil {
		return err
	}

	user, err := h.auth.CurrentUser(r.Context(), token)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) error {
	if err := h.auth.Logout(r.Context()); err != nil {
		return err
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
