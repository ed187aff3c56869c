package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/metrics"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
)

// NotificationService fans mint lifecycle events out through a buffered
// channel drained by Run. Enqueueing never blocks the business operation: if
// the buffer is full the batch is persisted on a detached goroutine instead
// of being dropped. Delivery is at-least-once.
type NotificationService struct {
	notificationRepo portsrepo.NotificationRepository
	inbox            chan []domain.Notification
	logger           *slog.Logger
	metrics          *metrics.Metrics
}

// NewNotificationService creates a new NotificationService with the given
// buffer capacity.
func NewNotificationService(repo portsrepo.NotificationRepository, buffer int, logger *slog.Logger, m *metrics.Metrics) *NotificationService {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		notificationRepo: repo,
		inbox:            make(chan []domain.Notification, buffer),
		logger:           logger,
		metrics:          m,
	}
}

var _ portssvc.NotifierSvcFacade = (*NotificationService)(nil)

func (s *NotificationService) NotifyMintEvent(ctx context.Context, notifType domain.NotificationType, requestID string, recipientIDs []string) {
	if len(recipientIDs) == 0 {
		return
	}

	now := time.Now()
	batch := make([]domain.Notification, 0, len(recipientIDs))
	for _, userID := range recipientIDs {
		batch = append(batch, domain.Notification{
			NotificationID: uuid.NewString(),
			UserID:         userID,
			Type:           notifType,
			PayloadRef:     requestID,
			CreatedAt:      now,
		})
	}
	s.metrics.IncrementNotificationsEnqueued()

	select {
	case s.inbox <- batch:
	default:
		// Buffer full. Persist out-of-band rather than dropping the batch or
		// stalling the caller.
		go s.persist(context.WithoutCancel(ctx), batch)
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notifications, err := s.notificationRepo.ListNotificationsByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list notifications", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID string, userID string) error {
	return s.notificationRepo.MarkNotificationRead(ctx, notificationID, userID)
}

// Run drains the inbox until ctx is cancelled. Remaining buffered batches are
// flushed before returning so a clean shutdown loses nothing.
func (s *NotificationService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.drain()
			return ctx.Err()
		case batch := <-s.inbox:
			s.persist(ctx, batch)
		}
	}
}

func (s *NotificationService) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case batch := <-s.inbox:
			s.persist(ctx, batch)
		default:
			return
		}
	}
}

// persist writes a batch with one retry. At-least-once, not exactly-once: a
// retry after a partial write may duplicate notifications, which readers
// tolerate.
func (s *NotificationService) persist(ctx context.Context, batch []domain.Notification) {
	err := s.notificationRepo.SaveNotifications(ctx, batch)
	if err == nil {
		return
	}
	s.logger.Warn("Notification persistence failed, retrying", slog.String("error", err.Error()), slog.Int("batch_size", len(batch)))

	if err := s.notificationRepo.SaveNotifications(ctx, batch); err != nil {
		s.metrics.IncrementNotificationsDropped()
		s.logger.Error("Notification batch lost after retry", slog.String("error", err.Error()), slog.Int("batch_size", len(batch)))
	}
}
