package liveview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/todolive/core/internal/infrastructure/logger"
)

// changeChannel is the Redis channel carrying cross-process change notices
const changeChannel = "todolive:changes"

// ChangeBus is the pub/sub transport bridging hubs in different processes
type ChangeBus interface {
	Publish(ctx context.Context, channel, payload string) error
	Subscribe(ctx context.Context, pattern string) (<-chan string, error)
}

// Hub tracks the live sessions of each user and wakes them after a
// mutation so every open browser tab re-renders. With a ChangeBus
// attached, changes also propagate to sessions on other processes.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[*Session]struct{}

	bus        ChangeBus
	instanceID string
	logger     *logger.Logger
}

// NewHub creates a hub. bus may be nil for single-process deployments.
func NewHub(bus ChangeBus, log *logger.Logger) *Hub {
	return &Hub{
		sessions:   make(map[uuid.UUID]map[*Session]struct{}),
		bus:        bus,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Register adds a session to the hub
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := s.User().ID
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[*Session]struct{})
	}
	h.sessions[userID][s] = struct{}{}
}

// Unregister removes a session from the hub
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID := s.User().ID
	delete(h.sessions[userID], s)
	if len(h.sessions[userID]) == 0 {
		delete(h.sessions, userID)
	}
}

// PublishChange wakes the user's local sessions and, when a bus is
// attached, forwards the notice to other processes. Implements
// ports.ChangePublisher.
func (h *Hub) PublishChange(ctx context.Context, userID uuid.UUID) error {
	h.notifyLocal(userID)

	if h.bus == nil {
		return nil
	}

	payload := fmt.Sprintf("%s|%s", h.instanceID, userID)
	if err := h.bus.Publish(ctx, changeChannel, payload); err != nil {
		return fmt.Errorf("publish change for user %s: %w", userID, err)
	}
	return nil
}

// notifyLocal marks every local session of the user dirty
func (h *Hub) notifyLocal(userID uuid.UUID) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.sessions[userID] {
		s.markDirty()
	}
}

// Run consumes bus notices until the context is cancelled. Notices
// originating from this instance are skipped; their sessions were
// already woken by PublishChange.
func (h *Hub) Run(ctx context.Context) error {
	if h.bus == nil {
		<-ctx.Done()
		return nil
	}

	messages, err := h.bus.Subscribe(ctx, changeChannel)
	if err != nil {
		return fmt.Errorf("subscribe to change channel: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			instance, rawUser, found := strings.Cut(msg, "|")
			if !found || instance == h.instanceID {
				continue
			}

			userID, err := uuid.Parse(rawUser)
			if err != nil {
				h.logger.Warn("Malformed change notice", "payload", msg)
				continue
			}

			h.notifyLocal(userID)
		}
	}
}

// SessionCount reports the number of connected sessions, for health checks
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, set := range h.sessions {
		n += len(set)
	}
	return n
}
