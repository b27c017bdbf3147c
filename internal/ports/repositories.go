package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/todolive/core/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TodoRepository defines the interface for todo data operations
type TodoRepository interface {
	Create(ctx context.Context, todo *entities.Todo) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error)
	Update(ctx context.Context, todo *entities.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Todo, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (TodoCounts, error)
	CompleteAllPending(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteCompleted(ctx context.Context, userID uuid.UUID) (int64, error)
}

// TodoCounts holds the per-user stat counts shown in the header bar
type TodoCounts struct {
	Total     int `json:"total" db:"total"`
	Pending   int `json:"pending" db:"pending"`
	Completed int `json:"completed" db:"completed"`
}

// ChangePublisher broadcasts that a user's todo collection changed
type ChangePublisher interface {
	PublishChange(ctx context.Context, userID uuid.UUID) error
}
