package repositories

import (
	"context"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// NotificationRepository persists per-recipient notification records.
type NotificationRepository interface {
	SaveNotifications(ctx context.Context, notifications []domain.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)

	// MarkNotificationRead flips the read flag. Monotonic: marking an already
	// read notification is a no-op, not an error.
	MarkNotificationRead(ctx context.Context, notificationID string, userID string) error
}
