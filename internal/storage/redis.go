package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/event"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

const (
	survivorKeyPrefix = "survivor:"
	survivorSetKey    = "survivors"
	resourceHashKey   = "resources"
	eventLogKey       = "event_log"
)

// RedisStore persists survivors, stockpiles, and the event log in Redis.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

var (
	_ event.SurvivorStore     = (*RedisStore)(nil)
	_ event.ResourceStore     = (*RedisStore)(nil)
	_ daycycle.ResourceLevels = (*RedisStore)(nil)
	_ daycycle.EventLog       = (*RedisStore)(nil)
)

// NewRedisStore creates a new Redis store instance
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

func (r *RedisStore) GetClient() *redis.Client {
	return r.client
}

func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Find returns the named survivor, or (nil, nil) when no such survivor
// exists.
func (r *RedisStore) Find(ctx context.Context, name string) (*survivor.Survivor, error) {
	data, err := r.client.Get(ctx, survivorKeyPrefix+name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get survivor %s: %w", name, err)
	}

	var s survivor.Survivor
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal survivor %s: %w", name, err)
	}
	return &s, nil
}

// AllAlive returns every stored survivor that is still alive, in
// unspecified order.
func (r *RedisStore) AllAlive(ctx context.Context) ([]*survivor.Survivor, error) {
	names, err := r.client.SMembers(ctx, survivorSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list survivors: %w", err)
	}

	out := make([]*survivor.Survivor, 0, len(names))
	for _, name := range names {
		s, err := r.Find(ctx, name)
		if err != nil {
			return nil, err
		}
		if s != nil && s.IsAlive() {
			out = append(out, s)
		}
	}
	return out, nil
}

// Save persists a survivor and registers its name.
func (r *RedisStore) Save(ctx context.Context, s *survivor.Survivor) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal survivor %s: %w", s.Name, err)
	}

	if err := r.client.Set(ctx, survivorKeyPrefix+s.Name, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save survivor %s: %w", s.Name, err)
	}
	if err := r.client.SAdd(ctx, survivorSetKey, s.Name).Err(); err != nil {
		return fmt.Errorf("failed to register survivor %s: %w", s.Name, err)
	}
	return nil
}

// adjustScript applies a floored increment to one stockpile field.
// Pools never go below zero.
var adjustScript = redis.NewScript(`
local v = redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[2])
if v < 0 then
	redis.call('HSET', KEYS[1], ARGV[1], 0)
	return 0
end
return v
`)

// Adjust changes a stockpile by delta and returns the new level.
func (r *RedisStore) Adjust(ctx context.Context, name string, delta int) (int, error) {
	val, err := adjustScript.Run(ctx, r.client, []string{resourceHashKey}, name, delta).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to adjust resource %s: %w", name, err)
	}

	r.logger.Debug("Resource adjusted", "resource", name, "delta", delta, "level", val)
	return val, nil
}

// Levels returns every stockpile and its current level.
func (r *RedisStore) Levels(ctx context.Context) (map[string]int, error) {
	raw, err := r.client.HGetAll(ctx, resourceHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read resource levels: %w", err)
	}

	out := make(map[string]int, len(raw))
	for name, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse resource level %s=%q: %w", name, v, err)
		}
		out[name] = n
	}
	return out, nil
}

// SetLevel overwrites one stockpile level. Used for run setup.
func (r *RedisStore) SetLevel(ctx context.Context, name string, level int) error {
	if err := r.client.HSet(ctx, resourceHashKey, name, level).Err(); err != nil {
		return fmt.Errorf("failed to set resource %s: %w", name, err)
	}
	return nil
}

// EventLogRecord is the persisted form of one resolved submission.
type EventLogRecord struct {
	Day         int               `json:"day"`
	Category    daycycle.Category `json:"category"`
	PlayerInput string            `json:"player_input"`
	Event       *event.StoryEvent `json:"event"`
	LoggedAt    time.Time         `json:"logged_at"`
}

// Append records a resolved story event at the end of the run's log.
func (r *RedisStore) Append(ctx context.Context, day int, category daycycle.Category, playerInput string, ev *event.StoryEvent) error {
	rec := EventLogRecord{
		Day:         day,
		Category:    category,
		PlayerInput: playerInput,
		Event:       ev,
		LoggedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal event log record: %w", err)
	}

	if err := r.client.RPush(ctx, eventLogKey, data).Err(); err != nil {
		return fmt.Errorf("failed to append event log record: %w", err)
	}
	return nil
}

// History returns the full event log in append order.
func (r *RedisStore) History(ctx context.Context) ([]EventLogRecord, error) {
	raw, err := r.client.LRange(ctx, eventLogKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	out := make([]EventLogRecord, 0, len(raw))
	for _, item := range raw {
		var rec EventLogRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event log record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}
