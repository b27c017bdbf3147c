package liveview

import (
	"sort"
	"time"

	"github.com/todolive/core/internal/domain/entities"
)

// FilterAndSortTodos returns the todos visible under the given filter and
// search query, ordered by sortBy. The input slice is not modified and the
// sort is stable: todos that compare equal keep their relative order.
func FilterAndSortTodos(todos []*entities.Todo, filter entities.Filter, sortBy entities.SortBy, searchQuery string) []*entities.Todo {
	visible := make([]*entities.Todo, 0, len(todos))
	for _, todo := range todos {
		if todo.MatchesFilter(filter) && todo.MatchesSearch(searchQuery) {
			visible = append(visible, todo)
		}
	}

	switch sortBy {
	case entities.SortByPriority:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Priority.Rank() < visible[j].Priority.Rank()
		})
	case entities.SortByDueDate:
		// Todos without a due date sort after all dated ones
		sort.SliceStable(visible, func(i, j int) bool {
			a, b := visible[i].DueDate, visible[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	default:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].CreatedAt.Before(visible[j].CreatedAt)
		})
	}

	return visible
}

// FormatDate renders a date as a short human-readable string
func FormatDate(date time.Time) string {
	return date.Format("Jan 2, 2006")
}
