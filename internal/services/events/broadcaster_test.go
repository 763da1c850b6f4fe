package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
)

func setupBroadcaster(t *testing.T) (*Broadcaster, *redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	b := NewBroadcaster(client, uuid.New(), logger)

	return b, client, mr
}

func TestBroadcaster_DayReady(t *testing.T) {
	b, client, mr := setupBroadcaster(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	sub := client.Subscribe(ctx, Channel(b.RunID()))
	defer func() { _ = sub.Close() }()

	// Wait for the subscription before publishing
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	state := &daycycle.DailyActionState{
		Day: 4,
		Categories: map[daycycle.Category]*daycycle.CategoryState{
			daycycle.CategoryExploration: {Active: true},
		},
	}
	b.DayReady(state)

	select {
	case msg := <-sub.Channel():
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			t.Fatalf("Failed to unmarshal event: %v", err)
		}
		if ev.Type != EventTypeDayReady {
			t.Errorf("Expected day.ready, got %s", ev.Type)
		}
		if ev.RunID != b.RunID().String() {
			t.Errorf("Expected run ID %s, got %s", b.RunID(), ev.RunID)
		}
		if day, ok := ev.Data["day"].(float64); !ok || int(day) != 4 {
			t.Errorf("Expected day 4 in payload, got %v", ev.Data["day"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for published event")
	}
}

func TestBroadcaster_CategoryResolved(t *testing.T) {
	b, client, mr := setupBroadcaster(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	sub := client.Subscribe(ctx, Channel(b.RunID()))
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	result := &daycycle.PlayerActionResult{
		Category: daycycle.CategoryDilemma,
		Input:    "share the water",
		Error:    "empty response",
	}
	b.CategoryResolved(daycycle.CategoryDilemma, result)

	select {
	case msg := <-sub.Channel():
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			t.Fatalf("Failed to unmarshal event: %v", err)
		}
		if ev.Type != EventTypeCategoryResolved {
			t.Errorf("Expected category.resolved, got %s", ev.Type)
		}
		if cat, _ := ev.Data["category"].(string); cat != "dilemma" {
			t.Errorf("Expected dilemma category, got %v", ev.Data["category"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for published event")
	}
}
