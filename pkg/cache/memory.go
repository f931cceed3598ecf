package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemorySize = 128

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process LRU cache. It does not survive restarts and is not
// shared between processes; use it for tests and single-instance setups
// without redis.
type Memory struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemory creates a memory cache holding at most size entries.
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = defaultMemorySize
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating lru: %w", err)
	}
	return &Memory{entries: entries, now: time.Now}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := m.entries.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.entries.Remove(key)
		return nil, ErrMiss
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores value under key. A non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries.Add(key, e)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *Memory) Close() error {
	m.entries.Purge()
	return nil
}
