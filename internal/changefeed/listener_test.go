package changefeed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, time.Second, retryDelay(1))
	assert.Equal(t, 2*time.Second, retryDelay(2))
	assert.Equal(t, 4*time.Second, retryDelay(3))
	assert.Equal(t, 32*time.Second, retryDelay(6))

	// Capped, however long the outage lasts.
	assert.Equal(t, time.Minute, retryDelay(7))
	assert.Equal(t, time.Minute, retryDelay(50))
}

func TestEventPayloadDecode(t *testing.T) {
	payload := `{"notification_id":"n-1","user_id":"u-1","type":"MINT_PENDING_APPROVAL","payload_ref":"req-1"}`

	var event Event
	assert.NoError(t, json.Unmarshal([]byte(payload), &event))
	assert.Equal(t, "n-1", event.NotificationID)
	assert.Equal(t, "u-1", event.UserID)
	assert.Equal(t, "MINT_PENDING_APPROVAL", event.Type)
	assert.Equal(t, "req-1", event.PayloadRef)
}
