package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
)

// MaxNotifications caps how many notifications are visible at once.
// Pushing past the cap drops the oldest.
const MaxNotifications = 5

// NotificationType classifies a notification for styling and expiry.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// Notification is a transient user-facing message.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// Notify pushes a notification and schedules its auto-expiry. The
// returned id can be used to dismiss it early.
func (s *Store) Notify(t NotificationType, message string) string {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Message:   message,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	if len(s.notifications) > MaxNotifications {
		s.notifications = s.notifications[len(s.notifications)-MaxNotifications:]
	}
	ttl := s.notifyTTL[t]
	s.mu.Unlock()

	telemetry.RecordNotification(context.Background(), string(t))

	if ttl > 0 {
		time.AfterFunc(ttl, func() {
			s.Dismiss(n.ID)
		})
	}

	return n.ID
}

// Dismiss removes a notification by id. Dismissing an id that already
// expired is a no-op.
func (s *Store) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// Notifications returns a snapshot of the visible notifications, oldest
// first.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}
