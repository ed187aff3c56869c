package models

import "time"

// Notification is the DB row shape for per-recipient event records.
type Notification struct {
	NotificationID string    `db:"notification_id"`
	UserID         string    `db:"user_id"`
	Type           string    `db:"type"`
	PayloadRef     string    `db:"payload_ref"`
	Read           bool      `db:"read"`
	CreatedAt      time.Time `db:"created_at"`
}
