package liveview

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/todolive/core/internal/domain/entities"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func makeTodo(title string, completed bool, priority entities.Priority, createdOffset time.Duration) *entities.Todo {
	return &entities.Todo{
		ID:        uuid.New(),
		Title:     title,
		Completed: completed,
		Priority:  priority,
		CreatedAt: testEpoch.Add(createdOffset),
	}
}

func titles(todos []*entities.Todo) []string {
	out := make([]string, len(todos))
	for i, todo := range todos {
		out[i] = todo.Title
	}
	return out
}

func equalTitles(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleTodos() []*entities.Todo {
	return []*entities.Todo{
		makeTodo("Buy milk", false, entities.PriorityLow, 0),
		makeTodo("Write report", true, entities.PriorityHigh, time.Hour),
		makeTodo("Call dentist", false, entities.PriorityHigh, 2*time.Hour),
		makeTodo("Water plants", true, entities.PriorityMedium, 3*time.Hour),
		makeTodo("Plan trip", false, entities.PriorityMedium, 4*time.Hour),
	}
}

func TestFilterAndSortTodosAllCreated(t *testing.T) {
	t.Parallel()

	got := FilterAndSortTodos(sampleTodos(), entities.FilterAll, entities.SortByCreated, "")

	want := []string{"Buy milk", "Write report", "Call dentist", "Water plants", "Plan trip"}
	if !equalTitles(titles(got), want) {
		t.Errorf("all/created = %v, want creation order %v", titles(got), want)
	}
}

func TestFilterAndSortTodosCompleted(t *testing.T) {
	t.Parallel()

	got := FilterAndSortTodos(sampleTodos(), entities.FilterCompleted, entities.SortByCreated, "")

	if len(got) != 2 {
		t.Fatalf("completed filter returned %d todos, want 2", len(got))
	}
	for _, todo := range got {
		if !todo.Completed {
			t.Errorf("completed filter leaked incomplete todo %q", todo.Title)
		}
	}
}

func TestFilterAndSortTodosActivePriority(t *testing.T) {
	t.Parallel()

	got := FilterAndSortTodos(sampleTodos(), entities.FilterActive, entities.SortByPriority, "")

	want := []string{"Call dentist", "Plan trip", "Buy milk"}
	if !equalTitles(titles(got), want) {
		t.Errorf("active/priority = %v, want high→medium→low %v", titles(got), want)
	}
	for _, todo := range got {
		if todo.Completed {
			t.Errorf("active filter leaked completed todo %q", todo.Title)
		}
	}
}

func TestFilterAndSortTodosSearch(t *testing.T) {
	t.Parallel()

	todos := sampleTodos()
	todos = append(todos, makeTodo("Order MILK delivery", false, entities.PriorityLow, 5*time.Hour))

	got := FilterAndSortTodos(todos, entities.FilterAll, entities.SortByCreated, "milk")

	want := []string{"Buy milk", "Order MILK delivery"}
	if !equalTitles(titles(got), want) {
		t.Errorf("search %q = %v, want %v", "milk", titles(got), want)
	}
}

func TestFilterAndSortTodosDueDate(t *testing.T) {
	t.Parallel()

	soon := testEpoch.Add(24 * time.Hour)
	later := testEpoch.Add(72 * time.Hour)

	undatedA := makeTodo("No date A", false, entities.PriorityLow, 0)
	dated1 := makeTodo("Due later", false, entities.PriorityLow, time.Hour)
	dated1.DueDate = &later
	undatedB := makeTodo("No date B", false, entities.PriorityLow, 2*time.Hour)
	dated2 := makeTodo("Due soon", false, entities.PriorityLow, 3*time.Hour)
	dated2.DueDate = &soon

	got := FilterAndSortTodos(
		[]*entities.Todo{undatedA, dated1, undatedB, dated2},
		entities.FilterAll, entities.SortByDueDate, "",
	)

	want := []string{"Due soon", "Due later", "No date A", "No date B"}
	if !equalTitles(titles(got), want) {
		t.Errorf("due_date sort = %v, want dated ascending then undated in original order %v", titles(got), want)
	}
}

func TestFilterAndSortTodosStable(t *testing.T) {
	t.Parallel()

	// Same priority at every position: priority sort must keep creation order
	todos := []*entities.Todo{
		makeTodo("first", false, entities.PriorityMedium, 0),
		makeTodo("second", false, entities.PriorityMedium, time.Hour),
		makeTodo("third", false, entities.PriorityMedium, 2*time.Hour),
	}

	got := FilterAndSortTodos(todos, entities.FilterAll, entities.SortByPriority, "")

	want := []string{"first", "second", "third"}
	if !equalTitles(titles(got), want) {
		t.Errorf("priority sort not stable: %v, want %v", titles(got), want)
	}
}

func TestFilterAndSortTodosDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	todos := sampleTodos()
	before := titles(todos)

	FilterAndSortTodos(todos, entities.FilterAll, entities.SortByPriority, "")

	if !equalTitles(titles(todos), before) {
		t.Errorf("input slice reordered: %v, want %v", titles(todos), before)
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	if got, want := FormatDate(date), "Mar 9, 2024"; got != want {
		t.Errorf("FormatDate = %q, want %q", got, want)
	}
}
