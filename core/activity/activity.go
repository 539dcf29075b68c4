package activity

import (
	"context"
	"fmt"
	"time"

	"inventory-guard/core/utils"

	"github.com/redis/go-redis/v9"
)

// State is the sale-level switch consulted by the order intake path.
type State string

const (
	StateRunning State = "RUNNING"
	StatePaused  State = "PAUSED"
)

// Key is the Redis hash holding the activity state.
const Key = "activity:state"

// Status is a snapshot of the activity state.
type Status struct {
	State    State     `json:"state"`
	Reason   string    `json:"reason,omitempty"`
	PausedAt time.Time `json:"paused_at,omitempty"`
}

// Controller pauses the sale. There is no resume; that is a human action.
type Controller interface {
	Pause(ctx context.Context, reason string) error
}

// StatusReader exposes the current activity state.
type StatusReader interface {
	Status(ctx context.Context) (Status, error)
}

// pauseScript keeps the reason and time of the first pause.
var pauseScript = redis.NewScript(`
-- KEYS[1]: activity state hash
-- ARGV[1]: reason, ARGV[2]: paused_at (unix millis)
if redis.call('hget', KEYS[1], 'state') == 'PAUSED' then
    return 0
end
redis.call('hset', KEYS[1], 'state', 'PAUSED', 'reason', ARGV[1], 'paused_at', ARGV[2])
return 1
`)

// RedisController stores the activity state in a Redis hash.
type RedisController struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisController creates a controller backed by Redis.
func NewRedisController(client redis.UniversalClient) *RedisController {
	return &RedisController{
		client: client,
		now:    time.Now,
	}
}

// Pause switches the activity to PAUSED. Pausing an already paused activity
// is a no-op that keeps the original reason.
func (c *RedisController) Pause(ctx context.Context, reason string) error {
	err := pauseScript.Run(ctx, c.client, []string{Key}, reason, c.now().UnixMilli()).Err()
	if err != nil {
		return fmt.Errorf("failed to pause activity: %w", err)
	}
	return nil
}

// Status reads the activity state. A missing hash means the sale is running.
func (c *RedisController) Status(ctx context.Context) (Status, error) {
	fields, err := c.client.HGetAll(ctx, Key).Result()
	if err != nil {
		return Status{}, fmt.Errorf("failed to read activity state: %w", err)
	}

	state := State(fields["state"])
	if state == "" {
		return Status{State: StateRunning}, nil
	}

	status := Status{State: state, Reason: fields["reason"]}
	if raw, ok := fields["paused_at"]; ok {
		if millis, err := utils.ParseInt64(raw); err == nil {
			status.PausedAt = time.UnixMilli(millis).UTC()
		}
	}
	return status, nil
}
