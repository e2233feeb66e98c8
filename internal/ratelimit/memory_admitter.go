package ratelimit

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryAdmitter is a fixed-window counter over an in-process TTL cache.
// State lives for one process instance only; it resets on restart and is
// not shared across instances. Over- or under-admission in those cases is
// accepted, its job is to blunt rapid double-sends, not enforce quotas.
type MemoryAdmitter struct {
	cache  *cache.Cache
	limit  int
	window time.Duration
}

func NewMemoryAdmitter(limit int, window time.Duration) *MemoryAdmitter {
	return &MemoryAdmitter{
		cache:  cache.New(window, 2*window),
		limit:  limit,
		window: window,
	}
}

func (a *MemoryAdmitter) Admit(key string) bool {
	// Add fails when a live (unexpired) counter exists for the key.
	if err := a.cache.Add(key, 1, a.window); err == nil {
		return a.limit >= 1
	}

	n, err := a.cache.IncrementInt(key, 1)
	if err != nil {
		// Counter expired between Add and Increment; start a new window.
		a.cache.Set(key, 1, a.window)
		return a.limit >= 1
	}
	return n <= a.limit
}
