package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/todolive/core/internal/domain/entities"
	"github.com/todolive/core/internal/infrastructure/logger"
	"github.com/todolive/core/internal/ports"
)

// TodoService handles todo operations for the live view and the JSON API
type TodoService struct {
	todoRepo ports.TodoRepository
	changes  ports.ChangePublisher
	logger   *logger.Logger
}

// NewTodoService creates a new todo service. changes may be nil when no
// live sessions need to be notified, e.g. in CLI commands.
func NewTodoService(todoRepo ports.TodoRepository, changes ports.ChangePublisher, logger *logger.Logger) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		changes:  changes,
		logger:   logger,
	}
}

// ListForUser retrieves the user's full todo collection
func (s *TodoService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*entities.Todo, error) {
	todos, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// CountForUser retrieves the user's todo stat counts
func (s *TodoService) CountForUser(ctx context.Context, userID uuid.UUID) (ports.TodoCounts, error) {
	counts, err := s.todoRepo.CountByUser(ctx, userID)
	if err != nil {
		return ports.TodoCounts{}, fmt.Errorf("failed to count todos: %w", err)
	}

	return counts, nil
}

// CreateTodo creates a new todo from the submitted form fields
func (s *TodoService) CreateTodo(ctx context.Context, userID uuid.UUID, req ports.CreateTodoRequest) (*entities.Todo, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, entities.ErrEmptyTitle
	}

	todo := &entities.Todo{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Priority:  entities.ParsePriority(req.Priority),
		Tags:      entities.ParseTags(req.Tags),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if req.Description != nil {
		if desc := strings.TrimSpace(*req.Description); desc != "" {
			todo.Description = &desc
		}
	}

	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due date: %w", err)
		}
		todo.DueDate = &due
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Info("Todo created", "todo_id", todo.ID, "user_id", userID, "title", todo.Title)
	s.publishChange(ctx, userID)

	return todo, nil
}

// ToggleTodo flips a todo's completion state
func (s *TodoService) ToggleTodo(ctx context.Context, userID, todoID uuid.UUID) (*entities.Todo, error) {
	todo, err := s.getOwned(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Toggle()

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.logger.Info("Todo toggled", "todo_id", todo.ID, "user_id", userID, "completed", todo.Completed)
	s.publishChange(ctx, userID)

	return todo, nil
}

// SaveTodo applies the edit form's title and description changes
func (s *TodoService) SaveTodo(ctx context.Context, userID uuid.UUID, req ports.SaveTodoRequest) (*entities.Todo, error) {
	todoID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid todo id: %w", err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, entities.ErrEmptyTitle
	}

	todo, err := s.getOwned(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Title = title
	todo.Description = nil
	if req.Description != nil {
		if desc := strings.TrimSpace(*req.Description); desc != "" {
			todo.Description = &desc
		}
	}
	todo.UpdatedAt = time.Now()

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.logger.Info("Todo saved", "todo_id", todo.ID, "user_id", userID)
	s.publishChange(ctx, userID)

	return todo, nil
}

// DeleteTodo removes a todo owned by the user
func (s *TodoService) DeleteTodo(ctx context.Context, userID, todoID uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, todoID); err != nil {
		return err
	}

	if err := s.todoRepo.Delete(ctx, todoID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.logger.Info("Todo deleted", "todo_id", todoID, "user_id", userID)
	s.publishChange(ctx, userID)

	return nil
}

// SetPriority changes a todo's priority level
func (s *TodoService) SetPriority(ctx context.Context, userID, todoID uuid.UUID, priority entities.Priority) (*entities.Todo, error) {
	if !priority.IsValid() {
		priority = entities.PriorityMedium
	}

	todo, err := s.getOwned(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Priority = priority
	todo.UpdatedAt = time.Now()

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.logger.Info("Todo priority set", "todo_id", todo.ID, "user_id", userID, "priority", priority)
	s.publishChange(ctx, userID)

	return todo, nil
}

// ToggleTag adds the tag to the todo, or removes it if already present
func (s *TodoService) ToggleTag(ctx context.Context, userID, todoID uuid.UUID, tag string) (*entities.Todo, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, entities.ErrEmptyTag
	}

	todo, err := s.getOwned(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.ToggleTag(tag)
	todo.UpdatedAt = time.Now()

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.logger.Info("Todo tag toggled", "todo_id", todo.ID, "user_id", userID, "tag", tag)
	s.publishChange(ctx, userID)

	return todo, nil
}

// BulkComplete marks all of the user's pending todos as completed
func (s *TodoService) BulkComplete(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.todoRepo.CompleteAllPending(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to complete todos: %w", err)
	}

	if n > 0 {
		s.logger.Info("Todos bulk completed", "user_id", userID, "count", n)
		s.publishChange(ctx, userID)
	}

	return n, nil
}

// BulkDeleteCompleted removes all of the user's completed todos
func (s *TodoService) BulkDeleteCompleted(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.todoRepo.DeleteCompleted(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed todos: %w", err)
	}

	if n > 0 {
		s.logger.Info("Completed todos deleted", "user_id", userID, "count", n)
		s.publishChange(ctx, userID)
	}

	return n, nil
}

// getOwned loads a todo and verifies the caller owns it
func (s *TodoService) getOwned(ctx context.Context, userID, todoID uuid.UUID) (*entities.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, todoID)
	if err != nil {
		return nil, err
	}
	if todo.UserID != userID {
		return nil, entities.ErrNotOwner
	}
	return todo, nil
}

func (s *TodoService) publishChange(ctx context.Context, userID uuid.UUID) {
	if s.changes == nil {
		return
	}
	if err := s.changes.PublishChange(ctx, userID); err != nil {
		s.logger.Warn("Failed to publish change notification", "user_id", userID, "error", err)
	}
}
