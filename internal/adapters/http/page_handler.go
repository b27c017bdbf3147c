package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todolive/core/internal/domain/entities"
	"github.com/todolive/core/internal/infrastructure/config"
	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/liveview"
	"github.com/todolive/core/internal/ports"
)

// PageHandler serves the server-rendered HTML pages
type PageHandler struct {
	renderer    *liveview.Renderer
	todoService ports.TodoService
	userService ports.UserService
	authService ports.AuthService
	cfg         *config.Config
	logger      *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	renderer *liveview.Renderer,
	todoService ports.TodoService,
	userService ports.UserService,
	authService ports.AuthService,
	cfg *config.Config,
	logger *logger.Logger,
) *PageHandler {
	return &PageHandler{
		renderer:    renderer,
		todoService: todoService,
		userService: userService,
		authService: authService,
		cfg:         cfg,
		logger:      logger,
	}
}

// Home renders the todo page. The live connection takes over updates
// once the client script connects.
func (h *PageHandler) Home(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Load user for home page failed", "error", err, "user_id", userID)
		return h.clearSessionAndRedirect(c)
	}

	todos, err := h.todoService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Load todos for home page failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load todos")
	}

	state := liveview.NewViewState(user, todos)

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.renderer.RenderPage(c.Response(), state)
}

// LoginPage renders the login form
func (h *PageHandler) LoginPage(c echo.Context) error {
	if cookie, err := c.Cookie(h.cfg.JWT.Cookie); err == nil {
		if _, err := h.authService.ValidateToken(cookie.Value); err == nil {
			return c.Redirect(http.StatusFound, "/")
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.renderer.RenderLogin(c.Response(), liveview.LoginData{AppName: h.cfg.App.Name})
}

// Login authenticates the submitted credentials and starts a session
func (h *PageHandler) Login(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	user, err := h.userService.Authenticate(c.Request().Context(), email, password)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Something went wrong. Please try again."
		if errors.Is(err, entities.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			message = "Invalid email or password."
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(status)
		return h.renderer.RenderLogin(c.Response(), liveview.LoginData{
			AppName: h.cfg.App.Name,
			Error:   message,
			Email:   email,
		})
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		h.logger.Error("Issue session token failed", "error", err, "user_id", user.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
	}

	c.SetCookie(h.sessionCookie(token, h.cfg.JWT.ExpiresIn))
	return c.Redirect(http.StatusFound, "/")
}

// Logout ends the session and returns to the login page
func (h *PageHandler) Logout(c echo.Context) error {
	return h.clearSessionAndRedirect(c)
}

func (h *PageHandler) clearSessionAndRedirect(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.Redirect(http.StatusFound, "/login")
}

func (h *PageHandler) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.JWT.Cookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.App.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
