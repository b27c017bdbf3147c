package liveview

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/todolive/core/internal/domain/entities"
	"github.com/todolive/core/internal/infrastructure/config"
	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/ports"
)

// renderMessage is the frame pushed to the client after each render pass
type renderMessage struct {
	Type string `json:"type"`
	HTML string `json:"html"`
}

// Session owns the view state of one live connection. Events read from the
// websocket mutate the state (and, through TodoService, the persistent todo
// collection), after which the re-rendered application region is pushed back.
type Session struct {
	user     *entities.User
	state    *ViewState
	todos    ports.TodoService
	renderer *Renderer
	validate *validator.Validate
	hub      *Hub
	metrics  *Metrics
	logger   *logger.Logger
	cfg      config.LiveConfig

	conn *websocket.Conn

	// dirty coalesces render triggers: local events and hub notices both
	// land here, and one wakeup produces one render.
	dirty chan struct{}
}

// NewSession creates a session for an authenticated user's connection.
// conn may be nil in tests that drive HandleEvent directly.
func NewSession(
	user *entities.User,
	todos ports.TodoService,
	renderer *Renderer,
	validate *validator.Validate,
	hub *Hub,
	metrics *Metrics,
	log *logger.Logger,
	cfg config.LiveConfig,
	conn *websocket.Conn,
) *Session {
	return &Session{
		user:     user,
		state:    NewViewState(user, nil),
		todos:    todos,
		renderer: renderer,
		validate: validate,
		hub:      hub,
		metrics:  metrics,
		logger:   log,
		cfg:      cfg,
		conn:     conn,
		dirty:    make(chan struct{}, 1),
	}
}

// User returns the session's authenticated user
func (s *Session) User() *entities.User {
	return s.user
}

// State exposes the view state for rendering and tests
func (s *Session) State() *ViewState {
	return s.state
}

// markDirty schedules a render on the session's own loop. Safe to call
// from any goroutine; repeated calls before the wakeup coalesce.
func (s *Session) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Serve runs the session until the connection closes or ctx is cancelled
func (s *Session) Serve(ctx context.Context) {
	s.hub.Register(s)
	defer s.hub.Unregister(s)

	if s.metrics != nil {
		s.metrics.SessionsActive.Inc()
		defer s.metrics.SessionsActive.Dec()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	events := make(chan Envelope)
	go s.readLoop(ctx, cancel, events)

	if err := s.pushRender(ctx); err != nil {
		s.logger.Warn("Initial render failed", "error", err, "user_id", s.user.ID)
		return
	}

	ping := time.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case env, ok := <-events:
			if !ok {
				return
			}

			err := s.HandleEvent(ctx, env)
			s.metrics.ObserveEvent(env.Event, err)
			s.logger.LogLiveEvent(s.user.ID.String(), env.Event, err)

			// Re-render even after a failed event so the client view
			// stays consistent with the server state.
			if err := s.pushRender(ctx); err != nil {
				return
			}

		case <-s.dirty:
			if err := s.pushRender(ctx); err != nil {
				return
			}
		}
	}
}

// readLoop pumps decoded envelopes from the websocket into the session loop
func (s *Session) readLoop(ctx context.Context, cancel context.CancelFunc, events chan<- Envelope) {
	defer cancel()
	defer close(events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		env, err := DecodeEnvelope(data)
		if err != nil {
			s.logger.Warn("Dropping malformed event", "error", err, "user_id", s.user.ID)
			continue
		}

		select {
		case events <- env:
		case <-ctx.Done():
			return
		}
	}
}

// pushRender reloads the todo collection, renders the application region
// and writes it to the connection.
func (s *Session) pushRender(ctx context.Context) error {
	// Coalesce any pending wakeup into this render
	select {
	case <-s.dirty:
	default:
	}

	html, err := s.RenderHTML(ctx)
	if err != nil {
		return err
	}

	frame, err := json.Marshal(renderMessage{Type: "render", HTML: html})
	if err != nil {
		return fmt.Errorf("failed to encode render frame: %w", err)
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to write render frame: %w", err)
	}

	return nil
}

// RenderHTML reloads the user's todos and renders the application region
func (s *Session) RenderHTML(ctx context.Context) (string, error) {
	todos, err := s.todos.ListForUser(ctx, s.user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load todos: %w", err)
	}

	s.state.Todos = todos
	s.state.Normalize()

	start := time.Now()
	html, err := s.renderer.RenderApp(s.state)
	if err != nil {
		return "", err
	}
	if s.metrics != nil {
		s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}

	return html, nil
}

// HandleEvent dispatches one event to its handler
func (s *Session) HandleEvent(ctx context.Context, env Envelope) error {
	switch env.Event {
	case EventToggleForm:
		s.state.ShowForm = !s.state.ShowForm
		return nil

	case EventFilterTodos:
		var p FilterPayload
		if err := env.decode(&p); err != nil {
			return err
		}
		s.state.Filter = entities.ParseFilter(p.Filter)
		return nil

	case EventSortTodos:
		var p SortPayload
		if err := env.decode(&p); err != nil {
			return err
		}
		s.state.SortBy = entities.ParseSortBy(p.SortBy)
		return nil

	case EventSearchTodos:
		var p SearchPayload
		if err := env.decode(&p); err != nil {
			return err
		}
		s.state.SearchQuery = p.Query
		return nil

	case EventCreateTodo:
		var req ports.CreateTodoRequest
		if err := env.decode(&req); err != nil {
			return err
		}
		if err := s.validate.Struct(&req); err != nil {
			return fmt.Errorf("invalid create_todo payload: %w", err)
		}
		if _, err := s.todos.CreateTodo(ctx, s.user.ID, req); err != nil {
			return err
		}
		s.state.ShowForm = false
		return nil

	case EventToggleTodo:
		id, err := s.decodeID(env)
		if err != nil {
			return err
		}
		_, err = s.todos.ToggleTodo(ctx, s.user.ID, id)
		return err

	case EventEditTodo:
		id, err := s.decodeID(env)
		if err != nil {
			return err
		}
		s.state.EditingID = &id
		return nil

	case EventDeleteTodo:
		id, err := s.decodeID(env)
		if err != nil {
			return err
		}
		if err := s.todos.DeleteTodo(ctx, s.user.ID, id); err != nil {
			return err
		}
		if s.state.IsEditing(id) {
			s.state.EditingID = nil
		}
		return nil

	case EventSetPriority:
		var p PriorityPayload
		if err := env.decode(&p); err != nil {
			return err
		}
		if err := s.validate.Struct(&p); err != nil {
			return fmt.Errorf("invalid set_priority payload: %w", err)
		}
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return fmt.Errorf("invalid todo id %q: %w", p.ID, err)
		}
		_, err = s.todos.SetPriority(ctx, s.user.ID, id, entities.ParsePriority(p.Priority))
		return err

	case EventToggleTag:
		var p TagPayload
		if err := env.decode(&p); err != nil {
			return err
		}
		if err := s.validate.Struct(&p); err != nil {
			return fmt.Errorf("invalid toggle_tag payload: %w", err)
		}
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return fmt.Errorf("invalid todo id %q: %w", p.ID, err)
		}
		_, err = s.todos.ToggleTag(ctx, s.user.ID, id, p.Tag)
		return err

	case EventSaveTodo:
		var req ports.SaveTodoRequest
		if err := env.decode(&req); err != nil {
			return err
		}
		if err := s.validate.Struct(&req); err != nil {
			return fmt.Errorf("invalid save_todo payload: %w", err)
		}
		if _, err := s.todos.SaveTodo(ctx, s.user.ID, req); err != nil {
			return err
		}
		s.state.EditingID = nil
		return nil

	case EventCancelEdit:
		s.state.EditingID = nil
		return nil

	case EventBulkComplete:
		_, err := s.todos.BulkComplete(ctx, s.user.ID)
		return err

	case EventBulkDeleteCompleted:
		_, err := s.todos.BulkDeleteCompleted(ctx, s.user.ID)
		return err

	default:
		return fmt.Errorf("unknown event %q", env.Event)
	}
}

// decodeID extracts and validates an id-only payload
func (s *Session) decodeID(env Envelope) (uuid.UUID, error) {
	var p IDPayload
	if err := env.decode(&p); err != nil {
		return uuid.Nil, err
	}
	if err := s.validate.Struct(&p); err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
	}

	id, err := uuid.Parse(p.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid todo id %q: %w", p.ID, err)
	}
	return id, nil
}
