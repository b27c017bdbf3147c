package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/todolive/core/internal/domain/entities"
	"github.com/todolive/core/internal/ports"
)

// TodoRepositoryImpl implements the TodoRepository interface
type TodoRepositoryImpl struct {
	db *sqlx.DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *sqlx.DB) ports.TodoRepository {
	return &TodoRepositoryImpl{db: db}
}

const todoColumns = `id, user_id, title, description, completed, priority, due_date, tags, created_at, updated_at`

// scanTodo reads one row into a Todo. Tags come back as a Postgres
// text[] and need pq.Array.
func scanTodo(row interface{ Scan(...interface{}) error }) (*entities.Todo, error) {
	var todo entities.Todo
	err := row.Scan(
		&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
		&todo.Completed, &todo.Priority, &todo.DueDate,
		pq.Array(&todo.Tags), &todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *TodoRepositoryImpl) Create(ctx context.Context, todo *entities.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, completed, priority, due_date, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.UserID, todo.Title, todo.Description,
		todo.Completed, todo.Priority, todo.DueDate, pq.Array(todo.Tags),
	).Scan(&todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND deleted_at IS NULL`

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}

	return todo, nil
}

func (r *TodoRepositoryImpl) Update(ctx context.Context, todo *entities.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, description = $3, completed = $4, priority = $5,
			due_date = $6, tags = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Completed,
		todo.Priority, todo.DueDate, pq.Array(todo.Tags),
	).Scan(&todo.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTodoNotFound
		}
		return fmt.Errorf("update todo: %w", err)
	}

	return nil
}

func (r *TodoRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE todos SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTodoNotFound
	}

	return nil
}

func (r *TodoRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []*entities.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepositoryImpl) CountByUser(ctx context.Context, userID uuid.UUID) (ports.TodoCounts, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE NOT completed) AS pending,
			COUNT(*) FILTER (WHERE completed) AS completed
		FROM todos
		WHERE user_id = $1 AND deleted_at IS NULL`

	var counts ports.TodoCounts
	err := r.db.GetContext(ctx, &counts, query, userID)
	if err != nil {
		return ports.TodoCounts{}, fmt.Errorf("count todos: %w", err)
	}

	return counts, nil
}

func (r *TodoRepositoryImpl) CompleteAllPending(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		UPDATE todos
		SET completed = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND NOT completed AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("complete pending todos: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *TodoRepositoryImpl) DeleteCompleted(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		UPDATE todos
		SET deleted_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND completed AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete completed todos: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected, nil
}
