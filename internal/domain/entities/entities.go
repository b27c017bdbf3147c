package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidSort        = errors.New("invalid sort")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotOwner           = errors.New("todo belongs to another user")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrEmptyTag           = errors.New("tag cannot be empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Priority is a todo's priority level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Filter selects which todos are visible
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// SortBy selects the ordering of visible todos
type SortBy string

const (
	SortByCreated  SortBy = "created"
	SortByPriority SortBy = "priority"
	SortByDueDate  SortBy = "due_date"
)

// User represents an account that owns todos
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
}

// Todo represents a single todo item
type Todo struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Completed   bool       `json:"completed" db:"completed"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	Tags        []string   `json:"tags" db:"tags"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" db:"deleted_at"`
}

// Toggle flips the completion state
func (t *Todo) Toggle() {
	t.Completed = !t.Completed
}

// IsOverdue reports whether the due date has passed on an open todo
func (t *Todo) IsOverdue() bool {
	if t.DueDate == nil {
		return false
	}
	return time.Now().After(*t.DueDate) && !t.Completed
}

// HasTag reports whether the todo carries the given tag
func (t *Todo) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// ToggleTag adds the tag if absent and removes it if present
func (t *Todo) ToggleTag(tag string) {
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return
		}
	}
	t.Tags = append(t.Tags, tag)
}

// MatchesSearch reports whether the todo matches a case-insensitive
// substring query against title and description. An empty query matches.
func (t *Todo) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), q) {
		return true
	}
	return false
}

// MatchesFilter reports whether the todo is visible under the filter
func (t *Todo) MatchesFilter(filter Filter) bool {
	switch filter {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Rank orders priorities high before medium before low
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Label returns a display name with the leading letter capitalized
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[0])) + string(p[1:])
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	default:
		return false
	}
}

func (s SortBy) IsValid() bool {
	switch s {
	case SortByCreated, SortByPriority, SortByDueDate:
		return true
	default:
		return false
	}
}

// ParseFilter maps a wire value to a Filter, defaulting to "all"
func ParseFilter(v string) Filter {
	f := Filter(v)
	if !f.IsValid() {
		return FilterAll
	}
	return f
}

// ParseSortBy maps a wire value to a SortBy, defaulting to "created"
func ParseSortBy(v string) SortBy {
	s := SortBy(v)
	if !s.IsValid() {
		return SortByCreated
	}
	return s
}

// ParsePriority maps a wire value to a Priority, defaulting to "medium"
func ParsePriority(v string) Priority {
	p := Priority(v)
	if !p.IsValid() {
		return PriorityMedium
	}
	return p
}

// ParseTags splits a comma-separated tag string into trimmed, non-empty tags
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
