package domain

import "time"

// NotificationType identifies what a notification refers to.
type NotificationType string

const (
	NotifyMintPending  NotificationType = "MINT_PENDING_APPROVAL"
	NotifyMintApproved NotificationType = "MINT_APPROVED"
	NotifyMintRejected NotificationType = "MINT_REJECTED"
)

// Notification is a per-recipient event record. It is monotonic: the only
// mutation ever applied is unread -> read.
type Notification struct {
	NotificationID string           `json:"notificationID"` // Primary Key (UUID)
	UserID         string           `json:"userID"`         // Recipient account ID
	Type           NotificationType `json:"type"`
	PayloadRef     string           `json:"payloadRef"` // MintRequest or Transaction ID
	Read           bool             `json:"read"`
	CreatedAt      time.Time        `json:"createdAt"`
}
