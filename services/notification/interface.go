package notification

import (
	"context"

	"edunest/models"
)

// NotificationStore is the durable list of received notifications plus
// the unread counter shown on the bell badge.
type NotificationStore interface {
	// Add inserts a notification, most-recent-first. A duplicate id is
	// silently dropped. Reports whether an insert actually happened.
	Add(ctx context.Context, n models.Notification) bool
	// MarkAsRead decrements the unread counter, floored at zero. The id
	// is accepted for call-site compatibility but the stored list is
	// left untouched; entries only leave the list via ClearAll.
	MarkAsRead(ctx context.Context, id string)
	// ClearAll empties the list, zeroes the counter and removes both
	// persisted keys.
	ClearAll(ctx context.Context)

	List() []models.Notification
	UnreadCount() int
}
