package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/todolive/core/internal/infrastructure/config"
	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/liveview"
	"github.com/todolive/core/internal/ports"
)

// LiveHandler upgrades authenticated requests to live sessions
type LiveHandler struct {
	upgrader    websocket.Upgrader
	hub         *liveview.Hub
	renderer    *liveview.Renderer
	metrics     *liveview.Metrics
	todoService ports.TodoService
	userService ports.UserService
	validate    *validator.Validate
	cfg         config.LiveConfig
	logger      *logger.Logger
}

// NewLiveHandler creates a new live connection handler
func NewLiveHandler(
	hub *liveview.Hub,
	renderer *liveview.Renderer,
	metrics *liveview.Metrics,
	todoService ports.TodoService,
	userService ports.UserService,
	validate *validator.Validate,
	cfg config.LiveConfig,
	logger *logger.Logger,
) *LiveHandler {
	return &LiveHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		hub:         hub,
		renderer:    renderer,
		metrics:     metrics,
		todoService: todoService,
		userService: userService,
		validate:    validate,
		cfg:         cfg,
		logger:      logger,
	}
}

// Connect upgrades the request and runs the session until the client
// disconnects
func (h *LiveHandler) Connect(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Warn("Live connect for unknown user", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unknown user")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("Live upgrade failed", "error", err, "user_id", userID)
		return nil
	}
	defer conn.Close()

	session := liveview.NewSession(
		user,
		h.todoService,
		h.renderer,
		h.validate,
		h.hub,
		h.metrics,
		h.logger,
		h.cfg,
		conn,
	)
	session.Serve(c.Request().Context())

	return nil
}
