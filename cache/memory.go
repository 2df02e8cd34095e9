package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type entry struct {
	val      []byte
	deadline time.Time // zero when there is no max age
}

// Memory is a process-local Store. Hits slide the expiry forward, but never
// past the entry's max age when one is configured.
type Memory struct {
	c       *ttlcache.Cache[string, entry]
	maxAge  time.Duration
	running bool
	stopped sync.Once
}

type MemoryOption func(*Memory)

// WithMaxAge caps how long an entry may live regardless of hits.
func WithMaxAge(d time.Duration) MemoryOption { return func(m *Memory) { m.maxAge = d } }

// WithJanitor runs the cache's expiry loop in the background. Close stops it.
func WithJanitor() MemoryOption { return func(m *Memory) { m.running = true } }

func NewMemory(opts ...MemoryOption) *Memory {
	// touch on hit is ttlcache's default, that is the sliding window
	m := &Memory{c: ttlcache.New[string, entry]()}
	for _, opt := range opts {
		opt(m)
	}
	if m.running {
		go m.c.Start()
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := m.c.Get(key)
	if item == nil {
		return nil, false, nil
	}
	e := item.Value()
	if !e.deadline.IsZero() && !time.Now().Before(e.deadline) {
		m.c.Delete(key)
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{val: val}
	if m.maxAge > 0 {
		e.deadline = time.Now().Add(m.maxAge)
	}
	m.c.Set(key, e, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len counts entries, expired ones included until they are swept.
func (m *Memory) Len() int { return m.c.Len() }

// Close stops the expiry loop. Safe to call more than once.
func (m *Memory) Close() error {
	m.stopped.Do(func() {
		if m.running {
			m.c.Stop()
		}
	})
	return nil
}

func (m *Memory) sweep() { m.c.DeleteExpired() }
