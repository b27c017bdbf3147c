package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/ports"
)

// stubTodoService overrides only the methods a test exercises
type stubTodoService struct {
	ports.TodoService
	counts ports.TodoCounts
}

func (s *stubTodoService) CountForUser(ctx context.Context, userID uuid.UUID) (ports.TodoCounts, error) {
	return s.counts, nil
}

func TestGetTodoStats(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("claims", &ports.Claims{UserID: uuid.New()})

	svc := &stubTodoService{counts: ports.TodoCounts{Total: 3, Pending: 2, Completed: 1}}
	h := NewTodoHandler(svc, logger.NewNop())

	if err := h.GetTodoStats(c); err != nil {
		t.Fatalf("GetTodoStats() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got ports.TodoCounts
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got != svc.counts {
		t.Errorf("counts = %+v, want %+v", got, svc.counts)
	}
}
