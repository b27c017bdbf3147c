package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todolive/core/internal/application/services"
)

// authMiddleware validates bearer tokens on API requests
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("claims", claims)

			return next(c)
		}
	}
}

// sessionMiddleware validates the session cookie on browser requests.
// With redirect set, an unauthenticated request lands on the login page
// instead of a bare 401.
func (s *Server) sessionMiddleware(authService *services.AuthService, redirect bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(s.config.JWT.Cookie)
			if err != nil || cookie.Value == "" {
				return s.rejectSession(c, redirect)
			}

			claims, err := authService.ValidateToken(cookie.Value)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_session", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return s.rejectSession(c, redirect)
			}

			c.Set("claims", claims)

			return next(c)
		}
	}
}

func (s *Server) rejectSession(c echo.Context, redirect bool) error {
	if redirect {
		return c.Redirect(http.StatusFound, "/login")
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
}
