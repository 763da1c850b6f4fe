package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/event"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

// MemoryStore is an in-memory store with the same surface as RedisStore.
// Suitable for tests and single-process runs without Redis.
type MemoryStore struct {
	mu        sync.RWMutex
	survivors map[string]*survivor.Survivor
	resources map[string]int
	log       []EventLogRecord
}

var (
	_ event.SurvivorStore     = (*MemoryStore)(nil)
	_ event.ResourceStore     = (*MemoryStore)(nil)
	_ daycycle.ResourceLevels = (*MemoryStore)(nil)
	_ daycycle.EventLog       = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		survivors: make(map[string]*survivor.Survivor),
		resources: make(map[string]int),
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }
func (m *MemoryStore) Close() error                   { return nil }

func (m *MemoryStore) Find(ctx context.Context, name string) (*survivor.Survivor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.survivors[name]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) AllAlive(ctx context.Context) ([]*survivor.Survivor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.survivors))
	for name := range m.survivors {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*survivor.Survivor, 0, len(names))
	for _, name := range names {
		if s := m.survivors[name]; s.IsAlive() {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *survivor.Survivor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.survivors[s.Name] = &cp
	return nil
}

func (m *MemoryStore) Adjust(ctx context.Context, name string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	level := m.resources[name] + delta
	if level < 0 {
		level = 0
	}
	m.resources[name] = level
	return level, nil
}

func (m *MemoryStore) Levels(ctx context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.resources))
	for name, level := range m.resources {
		out[name] = level
	}
	return out, nil
}

func (m *MemoryStore) SetLevel(ctx context.Context, name string, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resources[name] = level
	return nil
}

func (m *MemoryStore) Append(ctx context.Context, day int, category daycycle.Category, playerInput string, ev *event.StoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log = append(m.log, EventLogRecord{
		Day:         day,
		Category:    category,
		PlayerInput: playerInput,
		Event:       ev,
		LoggedAt:    time.Now().UTC(),
	})
	return nil
}

func (m *MemoryStore) History(ctx context.Context) ([]EventLogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]EventLogRecord, len(m.log))
	copy(out, m.log)
	return out, nil
}
