package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/todolive/core/docs"
	httpHandlers "github.com/todolive/core/internal/adapters/http"
	"github.com/todolive/core/internal/adapters/repository"
	"github.com/todolive/core/internal/application/services"
	"github.com/todolive/core/internal/infrastructure/config"
	"github.com/todolive/core/internal/infrastructure/database"
	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/liveview"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
	hub    *liveview.Hub
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. hub carries live sessions and is
// shared with the caller so its Run loop can be managed alongside the
// server lifecycle.
func New(cfg *config.Config, db *database.DB, hub *liveview.Hub, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.HideBanner = true
	e.HidePort = true

	renderer, err := liveview.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	e.HTTPErrorHandler = customErrorHandler(renderer, appLogger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	todoRepo := repository.NewTodoRepository(db.DB)

	// Initialize services
	todoService := services.NewTodoService(todoRepo, hub, appLogger)
	userService := services.NewUserService(userRepo, appLogger)
	authService := services.NewAuthService(cfg.JWT, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
		hub:    hub,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup metrics before routes so the middleware sees every handler
	var liveMetrics *liveview.Metrics
	if cfg.Metrics.Enabled {
		liveMetrics = server.setupMetrics()
	}

	// Initialize handlers
	todoHandler := httpHandlers.NewTodoHandler(todoService, appLogger)
	pageHandler := httpHandlers.NewPageHandler(renderer, todoService, userService, authService, cfg, appLogger)
	liveHandler := httpHandlers.NewLiveHandler(hub, renderer, liveMetrics, todoService, userService, validate, cfg.Live, appLogger)

	// Setup routes
	server.setupRoutes(todoHandler, pageHandler, liveHandler, authService)

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers. Inline scripts stay blocked; the client runtime
	// is served as a static file.
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'; connect-src 'self' ws: wss:",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware. The live endpoint holds its connection open
	// for the whole session and must not be cut off.
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/live"
		},
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(todoHandler *httpHandlers.TodoHandler, pageHandler *httpHandlers.PageHandler, liveHandler *httpHandlers.LiveHandler, authService *services.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	// Client assets
	s.echo.StaticFS("/static", echo.MustSubFS(liveview.StaticFS(), "static"))

	// Browser pages
	s.echo.GET("/", pageHandler.Home, s.sessionMiddleware(authService, true))
	s.echo.GET("/login", pageHandler.LoginPage)
	s.echo.POST("/login", pageHandler.Login)
	s.echo.POST("/logout", pageHandler.Logout)

	// Live connection. The websocket handshake sends the session cookie,
	// so the same middleware applies, but a redirect is useless here.
	s.echo.GET("/live", liveHandler.Connect, s.sessionMiddleware(authService, false))

	// API v1 routes (bearer token)
	v1 := s.echo.Group("/api/v1", s.authMiddleware(authService))
	v1.GET("/todos", todoHandler.ListTodos)
	v1.GET("/todos/stats", todoHandler.GetTodoStats)
	v1.POST("/todos", todoHandler.CreateTodo)
	v1.POST("/todos/:id/toggle", todoHandler.ToggleTodo)
	v1.DELETE("/todos/:id", todoHandler.DeleteTodo)
}

// setupMetrics configures Prometheus metrics and returns the live view
// collectors registered on the same registry
func (s *Server) setupMetrics() *liveview.Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))

	return liveview.NewMetrics(registry)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Database health check
	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	checks["live"] = map[string]interface{}{
		"status":   "ok",
		"sessions": s.hub.SessionCount(),
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors. API and infrastructure routes
// answer with JSON; browser routes get the rendered error page.
func customErrorHandler(renderer *liveview.Renderer, logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(*validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			switch {
			case c.Request().Method == echo.HEAD:
				err = c.NoContent(code)
			case wantsHTML(c):
				err = renderErrorPage(renderer, c, code, msg)
			default:
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}

// wantsHTML reports whether the request came from a browser page rather
// than an API client
func wantsHTML(c echo.Context) bool {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/live" {
		return false
	}
	return strings.Contains(c.Request().Header.Get("Accept"), echo.MIMETextHTML)
}

func renderErrorPage(renderer *liveview.Renderer, c echo.Context, code int, msg interface{}) error {
	message, ok := msg.(string)
	if !ok {
		message = http.StatusText(code)
	}

	var sb strings.Builder
	if err := renderer.RenderError(&sb, liveview.ErrorData{Code: code, Message: message}); err != nil {
		return c.JSON(code, map[string]string{"message": message})
	}
	return c.HTML(code, sb.String())
}
