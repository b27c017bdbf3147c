package entities

import (
	"reflect"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestTodoMatchesSearch(t *testing.T) {
	t.Parallel()

	todo := &Todo{
		Title:       "Buy Milk",
		Description: strPtr("from the Corner store"),
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty query matches", "", true},
		{"exact title substring", "Milk", true},
		{"case-insensitive title", "milk", true},
		{"case-insensitive description", "corner", true},
		{"no match", "bread", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := todo.MatchesSearch(tt.query); got != tt.want {
				t.Errorf("MatchesSearch(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}

	t.Run("nil description does not match", func(t *testing.T) {
		t.Parallel()
		todo := &Todo{Title: "Buy Milk"}
		if todo.MatchesSearch("corner") {
			t.Error("expected no match against absent description")
		}
	})
}

func TestTodoMatchesFilter(t *testing.T) {
	t.Parallel()

	open := &Todo{Completed: false}
	done := &Todo{Completed: true}

	tests := []struct {
		name   string
		todo   *Todo
		filter Filter
		want   bool
	}{
		{"all matches open", open, FilterAll, true},
		{"all matches done", done, FilterAll, true},
		{"active matches open", open, FilterActive, true},
		{"active rejects done", done, FilterActive, false},
		{"completed matches done", done, FilterCompleted, true},
		{"completed rejects open", open, FilterCompleted, false},
		{"unknown filter matches everything", done, Filter("bogus"), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.todo.MatchesFilter(tt.filter); got != tt.want {
				t.Errorf("MatchesFilter(%q) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestTodoToggleTag(t *testing.T) {
	t.Parallel()

	todo := &Todo{Tags: []string{"home", "urgent"}}

	todo.ToggleTag("urgent")
	if want := []string{"home"}; !reflect.DeepEqual(todo.Tags, want) {
		t.Errorf("after removing: got %v, want %v", todo.Tags, want)
	}

	todo.ToggleTag("errands")
	if want := []string{"home", "errands"}; !reflect.DeepEqual(todo.Tags, want) {
		t.Errorf("after adding: got %v, want %v", todo.Tags, want)
	}

	if !todo.HasTag("errands") || todo.HasTag("urgent") {
		t.Errorf("HasTag inconsistent with tag set %v", todo.Tags)
	}
}

func TestTodoIsOverdue(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name string
		todo Todo
		want bool
	}{
		{"no due date", Todo{}, false},
		{"future due date", Todo{DueDate: &future}, false},
		{"past due date open", Todo{DueDate: &past}, true},
		{"past due date completed", Todo{DueDate: &past, Completed: true}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.todo.IsOverdue(); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Errorf("priority ranks out of order: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}

	if Priority("bogus").Rank() <= PriorityLow.Rank() {
		t.Error("unknown priority should rank after low")
	}
}

func TestPriorityLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		priority Priority
		want     string
	}{
		{PriorityLow, "Low"},
		{PriorityMedium, "Medium"},
		{PriorityHigh, "High"},
		{Priority(""), ""},
	}

	for _, tt := range tests {
		if got := tt.priority.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.priority, got, tt.want)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	if got := ParseFilter("nonsense"); got != FilterAll {
		t.Errorf("ParseFilter fallback = %q, want %q", got, FilterAll)
	}
	if got := ParseFilter("completed"); got != FilterCompleted {
		t.Errorf("ParseFilter = %q, want %q", got, FilterCompleted)
	}
	if got := ParseSortBy("nonsense"); got != SortByCreated {
		t.Errorf("ParseSortBy fallback = %q, want %q", got, SortByCreated)
	}
	if got := ParseSortBy("due_date"); got != SortByDueDate {
		t.Errorf("ParseSortBy = %q, want %q", got, SortByDueDate)
	}
	if got := ParsePriority("nonsense"); got != PriorityMedium {
		t.Errorf("ParsePriority fallback = %q, want %q", got, PriorityMedium)
	}
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "home", []string{"home"}},
		{"multiple with spaces", " home, work ,urgent", []string{"home", "work", "urgent"}},
		{"trailing comma", "home,", []string{"home"}},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseTags(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
