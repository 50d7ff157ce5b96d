package notification

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"edunest/models"
	"edunest/store"

	"go.uber.org/zap"
)

// DefaultNotificationStore is the production implementation, persisted
// through the durable state store on every mutation.
type DefaultNotificationStore struct {
	State store.KV

	mu     sync.Mutex
	items  []models.Notification
	unread int

	now func() time.Time
}

func NewDefaultNotificationStore(state store.KV) *DefaultNotificationStore {
	return &DefaultNotificationStore{State: state, now: time.Now}
}

// Hydrate loads the persisted list and counter. Missing or corrupt
// entries default to empty / zero.
func (s *DefaultNotificationStore) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := s.State.Get(ctx, store.KeyNotifications); ok {
		var items []models.Notification
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			zap.L().Warn("stored notifications are not valid JSON, starting empty", zap.Error(err))
		} else {
			s.items = items
		}
	}
	if raw, ok := s.State.Get(ctx, store.KeyUnreadCount); ok {
		if count, err := strconv.Atoi(raw); err == nil && count >= 0 {
			s.unread = count
		}
	}
}

func (s *DefaultNotificationStore) Add(ctx context.Context, n models.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if n.ID == "" {
		n.ID = strconv.FormatInt(now.UnixMilli(), 10)
	}
	if n.ReceivedAt.IsZero() {
		n.ReceivedAt = now
	}

	for _, existing := range s.items {
		if existing.ID == n.ID {
			zap.L().Debug("duplicate notification dropped", zap.String("id", n.ID))
			return false
		}
	}

	updated := make([]models.Notification, 0, len(s.items)+1)
	updated = append(updated, n)
	updated = append(updated, s.items...)

	// Persist first, memory second.
	if data, err := json.Marshal(updated); err == nil {
		s.State.Set(ctx, store.KeyNotifications, string(data))
	}
	s.State.Set(ctx, store.KeyUnreadCount, strconv.Itoa(s.unread+1))

	s.items = updated
	s.unread++
	return true
}

func (s *DefaultNotificationStore) MarkAsRead(ctx context.Context, id string) {
	_ = id // accepted, but the list itself is not modified

	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.unread - 1
	if count < 0 {
		count = 0
	}
	s.State.Set(ctx, store.KeyUnreadCount, strconv.Itoa(count))
	s.unread = count
}

func (s *DefaultNotificationStore) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.State.Del(ctx, store.KeyNotifications, store.KeyUnreadCount)
	s.items = nil
	s.unread = 0
}

func (s *DefaultNotificationStore) List() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *DefaultNotificationStore) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}
