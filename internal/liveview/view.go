package liveview

import (
	"github.com/google/uuid"

	"github.com/todolive/core/internal/domain/entities"
)

// ViewState is the full input to a render pass. Todos is the user's complete
// collection; Filter, SortBy, SearchQuery, ShowForm and EditingID are
// per-session view state owned by the Session.
type ViewState struct {
	CurrentUser *entities.User
	Todos       []*entities.Todo
	ShowForm    bool
	Filter      entities.Filter
	SortBy      entities.SortBy
	SearchQuery string
	EditingID   *uuid.UUID
}

// NewViewState returns the initial state for a user
func NewViewState(user *entities.User, todos []*entities.Todo) *ViewState {
	return &ViewState{
		CurrentUser: user,
		Todos:       todos,
		Filter:      entities.FilterAll,
		SortBy:      entities.SortByCreated,
	}
}

// TotalCount counts all todos regardless of filtering
func (v *ViewState) TotalCount() int {
	return len(v.Todos)
}

// PendingCount counts incomplete todos
func (v *ViewState) PendingCount() int {
	n := 0
	for _, todo := range v.Todos {
		if !todo.Completed {
			n++
		}
	}
	return n
}

// CompletedCount counts completed todos
func (v *ViewState) CompletedCount() int {
	return v.TotalCount() - v.PendingCount()
}

// Visible computes the filtered, sorted todo slice for this render pass.
// Callers compute it once and reuse it for both iteration and emptiness.
func (v *ViewState) Visible() []*entities.Todo {
	return FilterAndSortTodos(v.Todos, v.Filter, v.SortBy, v.SearchQuery)
}

// IsEditing reports whether the given todo is in edit mode
func (v *ViewState) IsEditing(id uuid.UUID) bool {
	return v.EditingID != nil && *v.EditingID == id
}

// Normalize clears edit mode if the referenced todo is no longer present,
// keeping the editing reference pointing at a real row.
func (v *ViewState) Normalize() {
	if v.EditingID == nil {
		return
	}
	for _, todo := range v.Todos {
		if todo.ID == *v.EditingID {
			return
		}
	}
	v.EditingID = nil
}
