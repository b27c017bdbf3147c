package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/todolive/core/internal/domain/entities"
)

// TodoService interface for todo operations driven by the live view
type TodoService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*entities.Todo, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (TodoCounts, error)
	CreateTodo(ctx context.Context, userID uuid.UUID, req CreateTodoRequest) (*entities.Todo, error)
	ToggleTodo(ctx context.Context, userID, todoID uuid.UUID) (*entities.Todo, error)
	SaveTodo(ctx context.Context, userID uuid.UUID, req SaveTodoRequest) (*entities.Todo, error)
	DeleteTodo(ctx context.Context, userID, todoID uuid.UUID) error
	SetPriority(ctx context.Context, userID, todoID uuid.UUID, priority entities.Priority) (*entities.Todo, error)
	ToggleTag(ctx context.Context, userID, todoID uuid.UUID, tag string) (*entities.Todo, error)
	BulkComplete(ctx context.Context, userID uuid.UUID) (int64, error)
	BulkDeleteCompleted(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserService interface for user management operations
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*entities.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	Authenticate(ctx context.Context, email, password string) (*entities.User, error)
}

// AuthService interface for session token operations
type AuthService interface {
	IssueToken(user *entities.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carries the authenticated identity extracted from a token
type Claims struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// Request types

// CreateTodoRequest carries the create_todo form fields
type CreateTodoRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,max=200"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=2000"`
	Priority    string  `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date" form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Tags        string  `json:"tags" form:"tags" validate:"omitempty,max=500"`
}

// SaveTodoRequest carries the save_todo edit form fields
type SaveTodoRequest struct {
	ID          string  `json:"id" form:"id" validate:"required,uuid"`
	Title       string  `json:"title" form:"title" validate:"required,max=200"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=2000"`
}

// CreateUserRequest carries the fields needed to register an account
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}
