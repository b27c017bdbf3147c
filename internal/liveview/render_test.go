package liveview

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/todolive/core/internal/domain/entities"
)

func testUser() *entities.User {
	return &entities.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
		Name:  "Ada",
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderAppShowFormToggle(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	state := NewViewState(testUser(), nil)

	html, err := r.RenderApp(state)
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}
	if strings.Contains(html, `data-submit="create_todo"`) {
		t.Error("creation form rendered with ShowForm=false")
	}
	if !strings.Contains(html, "+ New Todo") {
		t.Error("toggle button should read \"+ New Todo\" when the form is hidden")
	}

	state.ShowForm = true
	html, err = r.RenderApp(state)
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}
	if !strings.Contains(html, `data-submit="create_todo"`) {
		t.Error("creation form missing with ShowForm=true")
	}
	if !strings.Contains(html, "Hide Form") {
		t.Error("toggle button should read \"Hide Form\" when the form is shown")
	}
}

func TestRenderAppEmptyStateOnce(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	state := NewViewState(testUser(), nil)

	html, err := r.RenderApp(state)
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}

	if got := strings.Count(html, "No todos found"); got != 1 {
		t.Errorf("empty state rendered %d times, want exactly 1", got)
	}
}

func TestRenderAppEmptyStateAbsentWithTodos(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	state := NewViewState(testUser(), []*entities.Todo{
		makeTodo("Buy milk", false, entities.PriorityMedium, 0),
	})

	html, err := r.RenderApp(state)
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}

	if strings.Contains(html, "No todos found") {
		t.Error("empty state rendered despite a visible todo")
	}
	if !strings.Contains(html, "Buy milk") {
		t.Error("todo title missing from render")
	}
}

func TestRenderAppStatsAndUser(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	state := NewViewState(testUser(), []*entities.Todo{
		makeTodo("one", false, entities.PriorityLow, 0),
		makeTodo("two", true, entities.PriorityLow, time.Hour),
		makeTodo("three", true, entities.PriorityLow, 2*time.Hour),
	})

	html, err := r.RenderApp(state)
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}

	if !strings.Contains(html, "Ada") {
		t.Error("user name missing from header")
	}
	if !strings.Contains(html, `<span class="stat-value">3</span>`) {
		t.Error("total count missing")
	}
	if !strings.Contains(html, `<span class="stat-value pending">1</span>`) {
		t.Error("pending count missing")
	}
	if !strings.Contains(html, `<span class="stat-value completed">2</span>`) {
		t.Error("completed count missing")
	}
}

func TestRenderAppBulkActionsGating(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)

	tests := []struct {
		name         string
		todos        []*entities.Todo
		wantComplete bool
		wantClear    bool
	}{
		{"no todos", nil, false, false},
		{"only pending", []*entities.Todo{makeTodo("a", false, entities.PriorityLow, 0)}, true, false},
		{"only completed", []*entities.Todo{makeTodo("a", true, entities.PriorityLow, 0)}, false, true},
		{"mixed", []*entities.Todo{
			makeTodo("a", false, entities.PriorityLow, 0),
			makeTodo("b", true, entities.PriorityLow, time.Hour),
		}, true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			html, err := r.RenderApp(NewViewState(testUser(), tt.todos))
			if err != nil {
				t.Fatalf("RenderApp: %v", err)
			}
			if got := strings.Contains(html, `data-event="bulk_complete"`); got != tt.wantComplete {
				t.Errorf("bulk_complete rendered=%v, want %v", got, tt.wantComplete)
			}
			if got := strings.Contains(html, `data-event="bulk_delete_completed"`); got != tt.wantClear {
				t.Errorf("bulk_delete_completed rendered=%v, want %v", got, tt.wantClear)
			}
		})
	}
}

func TestRenderAppEditMode(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	editing := makeTodo("Editable", false, entities.PriorityMedium, 0)
	other := makeTodo("Plain", false, entities.PriorityMedium, time.Hour)

	state := NewViewState(testUser(), []*entities.Todo{editing, other})
	state.EditingID = &editing.ID

	html, err := r.RenderApp(state)
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}

	if got := strings.Count(html, `data-submit="save_todo"`); got != 1 {
		t.Errorf("save_todo forms rendered %d times, want exactly 1 (only the editing row)", got)
	}
	if !strings.Contains(html, `value="`+editing.ID.String()+`"`) {
		t.Error("edit form missing the hidden id field")
	}
	// The non-editing row stays in view mode with its action buttons
	if !strings.Contains(html, `data-event="edit_todo"`) {
		t.Error("view-mode row missing its edit button")
	}
}

func TestRenderAppActiveFilterAndSortSelection(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	state := NewViewState(testUser(), nil)
	state.Filter = entities.FilterActive
	state.SortBy = entities.SortByDueDate
	state.SearchQuery = "milk"

	html, err := r.RenderApp(state)
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}

	if got := strings.Count(html, `class="filter-btn active"`); got != 1 {
		t.Errorf("active filter class rendered on %d buttons, want exactly 1", got)
	}

	if !strings.Contains(html, `value="due_date" selected`) {
		t.Error("sort select does not mark the current selection")
	}
	if !strings.Contains(html, `value="milk"`) {
		t.Error("search input does not echo the current query")
	}
}

func TestRenderAppTagAndPayloadBindings(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	todo := makeTodo("Tagged", false, entities.PriorityHigh, 0)
	todo.Tags = []string{"home", "urgent"}
	due := testEpoch.Add(48 * time.Hour)
	todo.DueDate = &due

	html, err := r.RenderApp(NewViewState(testUser(), []*entities.Todo{todo}))
	if err != nil {
		t.Fatalf("RenderApp: %v", err)
	}

	for _, want := range []string{
		`data-event="toggle_tag"`,
		`data-value-tag="home"`,
		`data-value-tag="urgent"`,
		`data-value-id="` + todo.ID.String() + `"`,
		`data-event="set_priority"`,
		`data-event="delete_todo"`,
		"Mar 3, 2024",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderPageWrapsApp(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	var sb strings.Builder
	if err := r.RenderPage(&sb, NewViewState(testUser(), nil)); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}

	html := sb.String()
	for _, want := range []string{"<!DOCTYPE html>", `id="app"`, `data-live="/live"`, "live.js", "todo-app"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestViewStateNormalizeClearsStaleEdit(t *testing.T) {
	t.Parallel()

	todo := makeTodo("kept", false, entities.PriorityLow, 0)
	state := NewViewState(testUser(), []*entities.Todo{todo})

	stale := uuid.New()
	state.EditingID = &stale
	state.Normalize()
	if state.EditingID != nil {
		t.Error("Normalize kept an editing id that references no todo")
	}

	state.EditingID = &todo.ID
	state.Normalize()
	if state.EditingID == nil {
		t.Error("Normalize cleared a valid editing id")
	}
}
