package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/tasktrack-go/internal/middleware"
	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/respond"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	service *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{service: svc}
}

// HandleCreate handles POST /create requests.
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.CreateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeTodoError(w, "create todo", userID, err)
		return
	}

	respond.JSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /get-all requests.
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	todos, err := h.service.List(r.Context(), userID, r.URL.Query().Get("email"))
	if err != nil {
		writeTodoError(w, "list todos", userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, todos)
}

// HandleToggle handles PUT /update/{id} requests.
func (h *TodoHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ToggleDone(r.Context(), userID, todoID)
	if err != nil {
		writeTodoError(w, "toggle todo", userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /delete/{id} requests.
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	todoID, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Delete(r.Context(), userID, todoID)
	if err != nil {
		writeTodoError(w, "delete todo", userID, err)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

func parseTodoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid todo id")
		return 0, false
	}
	return id, true
}

func writeTodoError(w http.ResponseWriter, op string, userID int64, err error) {
	switch {
	case errors.Is(err, service.ErrOwnerMismatch):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnknownOwner):
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
	default:
		slog.Error(op+" failed", "user_id", userID, "error", err)
		respond.InternalError(w)
	}
}
