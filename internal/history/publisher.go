// internal/history/publisher.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nope-cardgame/nopebot/internal/models"
)

// DefaultQueueName is the Redis list (queue) name for played-action
// records consumed by the historian service.
var DefaultQueueName = "nope_actions"

// Record kinds.
const (
	KindAction  = "action"
	KindGameEnd = "game_end"
)

// Record is one history entry: either an action the bot played or the
// final standings of a finished game.
type Record struct {
	ID          uuid.UUID      `json:"id"`
	Kind        string         `json:"kind"`
	GameID      string         `json:"game_id"`
	BotID       uuid.UUID      `json:"bot_id"`
	Username    string         `json:"username"`
	ActionType  string         `json:"action_type,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Cards       []models.Card  `json:"cards,omitempty"`
	Rankings    map[string]int `json:"rankings,omitempty"`
	Timestamp   int64          `json:"timestamp"`
}

// Publisher pushes history records onto a Redis queue. Publishing is
// fire-and-forget observability for the bot; the historian service
// drains the queue into PostgreSQL.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// Connect initializes a publisher from environment variables:
//   - REDIS_ADDR (empty => history recording disabled, returns nil)
//   - REDIS_DB (optional, default 0)
//   - HISTORIAN_QUEUE_NAME (optional, default DefaultQueueName)
func Connect(ctx context.Context) (*Publisher, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   getEnvInt("REDIS_DB", 0),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return &Publisher{
		rdb:   rdb,
		queue: getEnv("HISTORIAN_QUEUE_NAME", DefaultQueueName),
	}, nil
}

// Publish serializes the record and pushes it onto the queue. The id
// and timestamp are filled in when unset.
func (p *Publisher) Publish(ctx context.Context, rec Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
