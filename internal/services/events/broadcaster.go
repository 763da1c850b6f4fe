package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeDayReady         EventType = "day.ready"
	EventTypeCategoryResolved EventType = "category.resolved"
	EventTypeDayCompleted     EventType = "day.completed"
)

// Event represents a generic event structure
type Event struct {
	Type  EventType              `json:"type"`
	RunID string                 `json:"run_id"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes day-cycle events to Redis Pub/Sub for SSE
// distribution. It implements daycycle.Notifier; publish failures are
// logged, never surfaced, so a flaky subscriber cannot stall a day.
type Broadcaster struct {
	redisClient *redis.Client
	runID       uuid.UUID
	logger      *slog.Logger
}

var _ daycycle.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster for one run
func NewBroadcaster(redisClient *redis.Client, runID uuid.UUID, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		runID:       runID,
		logger:      logger,
	}
}

// RunID returns the run this broadcaster publishes for.
func (b *Broadcaster) RunID() uuid.UUID {
	return b.runID
}

// DayReady publishes a day.ready event with the prepared state
func (b *Broadcaster) DayReady(state *daycycle.DailyActionState) {
	b.publish(Event{
		Type:  EventTypeDayReady,
		RunID: b.runID.String(),
		Data: map[string]interface{}{
			"day":   state.Day,
			"state": state,
		},
	})
}

// CategoryResolved publishes a category.resolved event with the outcome
func (b *Broadcaster) CategoryResolved(category daycycle.Category, result *daycycle.PlayerActionResult) {
	b.publish(Event{
		Type:  EventTypeCategoryResolved,
		RunID: b.runID.String(),
		Data: map[string]interface{}{
			"category": category,
			"result":   result,
		},
	})
}

// DayCompleted publishes a day.completed event with all results
func (b *Broadcaster) DayCompleted(day int, results map[daycycle.Category]*daycycle.PlayerActionResult) {
	b.publish(Event{
		Type:  EventTypeDayCompleted,
		RunID: b.runID.String(),
		Data: map[string]interface{}{
			"day":     day,
			"results": results,
		},
	})
}

// publish sends an event to the run-specific channel
func (b *Broadcaster) publish(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channel := Channel(b.runID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)
}

// Channel returns the pub/sub channel name for a run.
func Channel(runID uuid.UUID) string {
	return fmt.Sprintf("run-events:%s", runID.String())
}
