package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// channelName matches the channel used by the notifications insert trigger.
const channelName = "notification_events"

// Event is the payload emitted by the notifications insert trigger.
type Event struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Type           string `json:"type"`
	PayloadRef     string `json:"payload_ref"`
}

// Handler receives decoded changefeed events. Handlers must not block; slow
// consumers should buffer internally.
type Handler func(ctx context.Context, event Event)

// Listener holds a dedicated connection on LISTEN and dispatches every
// notification row insert to the handler. Built on Postgres LISTEN/NOTIFY,
// so downstream consumers (websocket pushers, cache invalidation) see new
// notifications without polling.
type Listener struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	handler Handler
}

// NewListener creates a changefeed listener. A nil handler just logs events.
func NewListener(pool *pgxpool.Pool, logger *slog.Logger, handler Handler) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Listener{pool: pool, logger: logger, handler: handler}
	if l.handler == nil {
		l.handler = l.logEvent
	}
	return l
}

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = time.Minute
)

// retryDelay returns the reconnect backoff for the given attempt, doubling
// from baseRetryDelay up to maxRetryDelay.
func retryDelay(attempt int) time.Duration {
	delay := baseRetryDelay
	for i := 1; i < attempt && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// Run listens until ctx is cancelled. A lost connection is re-established
// with exponential backoff rather than returned, so a transient database
// hiccup never takes the process down. Notifications fired while the
// listener is reconnecting are missed; consumers fall back to polling the
// notifications table for anything older than their last event.
func (l *Listener) Run(ctx context.Context) error {
	attempt := 0
	for {
		received, err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if received {
			attempt = 0
		}
		attempt++
		delay := retryDelay(attempt)
		l.logger.Warn("Changefeed connection lost, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("backoff", delay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// listen holds one dedicated connection on LISTEN until it fails or ctx is
// cancelled. The connection stays out of the pool: LISTEN state is
// per-connection. Reports whether any notification arrived, so the caller
// can reset its backoff after a healthy session.
func (l *Listener) listen(ctx context.Context) (bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire changefeed connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return false, fmt.Errorf("failed to listen on %s: %w", channelName, err)
	}
	l.logger.Info("Changefeed listener started", slog.String("channel", channelName))

	received := false
	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return received, fmt.Errorf("changefeed wait failed: %w", err)
		}
		received = true

		var event Event
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			l.logger.Warn("Discarding malformed changefeed payload", slog.String("error", err.Error()))
			continue
		}
		l.handler(ctx, event)
	}
}

func (l *Listener) logEvent(ctx context.Context, event Event) {
	l.logger.Info("Notification event",
		slog.String("notification_id", event.NotificationID),
		slog.String("user_id", event.UserID),
		slog.String("type", event.Type),
	)
}
