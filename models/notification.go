package models

import "time"

// Notification is a received push entry kept in the durable list,
// most-recent-first. ID uniqueness is enforced at insert.
type Notification struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
	ReceivedAt time.Time         `json:"receivedAt"`
}
