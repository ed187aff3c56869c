package services

import (
	"context"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// NotifierSvcFacade fans mint lifecycle events out to interested accounts.
// Enqueue methods never block the caller and never fail the business
// operation that triggered them.
type NotifierSvcFacade interface {
	// NotifyMintEvent enqueues one notification per recipient. Delivery is
	// at-least-once; duplicates on retry are acceptable.
	NotifyMintEvent(ctx context.Context, notifType domain.NotificationType, requestID string, recipientIDs []string)

	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string, userID string) error

	// Run drains the internal queue until ctx is cancelled.
	Run(ctx context.Context) error
}
