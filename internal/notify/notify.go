package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event names broadcast on couple channels
const (
	EventPairingCompleted    = "pairing-completed"
	EventTaskCreated         = "task-created"
	EventTaskUpdated         = "task-updated"
	EventAchievementUnlocked = "achievement-unlocked"
	EventStreakUpdated       = "streak-updated"
	EventNewMessage          = "new-message"
)

const publishTimeout = 2 * time.Second

// CoupleChannel returns the pub/sub channel name for a couple
func CoupleChannel(coupleID string) string {
	return "couple-" + coupleID
}

// Envelope is the wire shape of a published event
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Publisher broadcasts state-change events to a couple's channel.
// Delivery is best-effort: callers log and swallow the returned error,
// a publish failure never rolls back the state change that produced it.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// RedisPublisher publishes events over Redis PUBLISH
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a publisher backed by the given Redis client
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish sends the event to the channel with a bounded timeout
func (p *RedisPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event, channel, err)
	}
	return nil
}
