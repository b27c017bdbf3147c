package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/todolive/core/internal/domain/entities"
	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/ports"
)

// TodoHandler serves the JSON API mirror of the live view operations
type TodoHandler struct {
	todoService ports.TodoService
	logger      *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoService ports.TodoService, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		logger:      logger,
	}
}

// ListTodos godoc
// @Summary List todos
// @Description List all todos belonging to the authenticated user
// @Tags todos
// @Produce json
// @Success 200 {array} entities.Todo
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /todos [get]
func (h *TodoHandler) ListTodos(c echo.Context) error {
	userID := getUserIDFromContext(c)

	todos, err := h.todoService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("List todos failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list todos")
	}

	if todos == nil {
		todos = []*entities.Todo{}
	}

	return c.JSON(http.StatusOK, todos)
}

// GetTodoStats godoc
// @Summary Todo statistics
// @Description Report total, pending and completed counts for the authenticated user
// @Tags todos
// @Produce json
// @Success 200 {object} ports.TodoCounts
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /todos/stats [get]
func (h *TodoHandler) GetTodoStats(c echo.Context) error {
	userID := getUserIDFromContext(c)

	counts, err := h.todoService.CountForUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Count todos failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count todos")
	}

	return c.JSON(http.StatusOK, counts)
}

// CreateTodo godoc
// @Summary Create a todo
// @Description Create a new todo for the authenticated user
// @Tags todos
// @Accept json
// @Produce json
// @Param request body ports.CreateTodoRequest true "Todo data"
// @Success 201 {object} entities.Todo
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req ports.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.CreateTodo(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Error("Create todo failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, todo)
}

// ToggleTodo godoc
// @Summary Toggle a todo
// @Description Flip the completion state of a todo
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} entities.Todo
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /todos/{id}/toggle [post]
func (h *TodoHandler) ToggleTodo(c echo.Context) error {
	userID := getUserIDFromContext(c)

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid todo ID")
	}

	todo, err := h.todoService.ToggleTodo(c.Request().Context(), userID, todoID)
	if err != nil {
		return todoError(err)
	}

	return c.JSON(http.StatusOK, todo)
}

// DeleteTodo godoc
// @Summary Delete a todo
// @Description Delete a todo belonging to the authenticated user
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	userID := getUserIDFromContext(c)

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid todo ID")
	}

	if err := h.todoService.DeleteTodo(c.Request().Context(), userID, todoID); err != nil {
		return todoError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Todo deleted"})
}

// todoError maps domain errors onto HTTP status codes. Ownership
// violations are reported as not-found to avoid leaking todo existence.
func todoError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTodoNotFound), errors.Is(err, entities.ErrNotOwner):
		return echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	case errors.Is(err, entities.ErrEmptyTitle), errors.Is(err, entities.ErrEmptyTag):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Operation failed")
	}
}

// getUserIDFromContext reads the authenticated user ID stored by the
// auth middleware
func getUserIDFromContext(c echo.Context) uuid.UUID {
	claims, ok := c.Get("claims").(*ports.Claims)
	if !ok {
		return uuid.Nil
	}
	return claims.UserID
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
