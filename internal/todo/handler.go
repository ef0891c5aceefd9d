package todo

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tidelist/tidelist/internal/platform/httpx"
	"github.com/tidelist/tidelist/internal/shared"
)

// Handler wires HTTP endpoints for to-do operations. Every route assumes the
// auth gate already attached an identity to the request context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers to-do routes. The paths follow the original client
// contract: a singular /todo for writes and /todos for reads, with the
// target id carried in the todoid header.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/todos", h.listTodos)
	r.Post("/todo", h.createTodo)
	r.Put("/todo", h.updateTodo)
	r.Delete("/todo", h.deleteTodo)
}

type createRequest struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category"`
}

type updateRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Done     *bool   `json:"done"`
}

type todoView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Done     bool   `json:"done"`
}

func (h *Handler) listTodos(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}

	todos, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list todos", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	views := make([]todoView, len(todos))
	for i, t := range todos {
		views[i] = todoView{ID: t.ID, Title: t.Title, Category: t.Category, Done: t.Done}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"todos": views})
}

func (h *Handler) createTodo(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}

	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, map[string]string{"title": "title is required"})
		return
	}

	created, err := h.service.Create(r.Context(), identity.UserID, req.Title, req.Category)
	if err != nil {
		h.logger.Error("create todo", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":       created.ID,
		"userId":   created.UserID,
		"title":    created.Title,
		"category": created.Category,
		"message":  "Todo created",
	})
}

func (h *Handler) updateTodo(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}
	todoID, ok := todoIDFromHeader(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if req.Title != nil && *req.Title == "" {
		httpx.ValidationProblem(w, map[string]string{"title": "title must not be empty"})
		return
	}

	patch := Patch{Title: req.Title, Category: req.Category, Done: req.Done}
	if err := h.service.Update(r.Context(), identity.UserID, todoID, patch); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("update todo", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Todo updated"})
}

func (h *Handler) deleteTodo(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidToken)
		return
	}
	todoID, ok := todoIDFromHeader(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, todoID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("delete todo", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Todo deleted"})
}

// todoIDFromHeader parses the todoid header and writes a 400 when it is
// missing or not an integer.
func todoIDFromHeader(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get("todoid")
	if raw == "" {
		httpx.ValidationProblem(w, map[string]string{"todoid": "todoid header is required"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.ValidationProblem(w, map[string]string{"todoid": "todoid must be an integer"})
		return 0, false
	}
	return id, true
}
