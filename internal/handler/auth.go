package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasktrack/tasktrack-go/internal/middleware"
	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/respond"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		slog.Error("register failed", "error", err)
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respond.Error(w, http.StatusUnauthorized, "Invalid Email")
		case errors.Is(err, service.ErrInvalidPassword):
			respond.Error(w, http.StatusUnauthorized, "Invalid Password")
		default:
			slog.Error("login failed", "error", err)
			respond.InternalError(w)
		}
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resp, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownOwner) {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		slog.Error("loading user failed", "user_id", userID, "error", err)
		respond.InternalError(w)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}
