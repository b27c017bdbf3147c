package liveview

import (
	"encoding/json"
	"fmt"
)

// Event names dispatched by the client runtime. These are the handler
// entry points every interactive element in the template binds to.
const (
	EventToggleForm          = "toggle_form"
	EventFilterTodos         = "filter_todos"
	EventSortTodos           = "sort_todos"
	EventSearchTodos         = "search_todos"
	EventCreateTodo          = "create_todo"
	EventToggleTodo          = "toggle_todo"
	EventEditTodo            = "edit_todo"
	EventDeleteTodo          = "delete_todo"
	EventSetPriority         = "set_priority"
	EventToggleTag           = "toggle_tag"
	EventSaveTodo            = "save_todo"
	EventCancelEdit          = "cancel_edit"
	EventBulkComplete        = "bulk_complete"
	EventBulkDeleteCompleted = "bulk_delete_completed"
)

// Envelope is the wire format for one client event
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeEnvelope parses a raw websocket message into an Envelope
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed event message: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("event name is required")
	}
	return env, nil
}

// decode unmarshals the payload into dst; a missing payload leaves dst zero
func (e Envelope) decode(dst interface{}) error {
	if len(e.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("malformed %s payload: %w", e.Event, err)
	}
	return nil
}

// Payload types. Field values pass through to handlers verbatim.

// IDPayload identifies the todo an event targets
type IDPayload struct {
	ID string `json:"id" validate:"required,uuid"`
}

// FilterPayload carries the filter_todos selection
type FilterPayload struct {
	Filter string `json:"filter"`
}

// SortPayload carries the sort_todos selection
type SortPayload struct {
	SortBy string `json:"sort_by"`
}

// SearchPayload carries the debounced search_todos query
type SearchPayload struct {
	Query string `json:"query"`
}

// PriorityPayload carries the set_priority selection for a todo
type PriorityPayload struct {
	ID       string `json:"id" validate:"required,uuid"`
	Priority string `json:"priority" validate:"required,oneof=low medium high"`
}

// TagPayload carries the toggle_tag target
type TagPayload struct {
	ID  string `json:"id" validate:"required,uuid"`
	Tag string `json:"tag" validate:"required"`
}
