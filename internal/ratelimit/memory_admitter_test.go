package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryAdmitterFixedWindow(t *testing.T) {
	a := NewMemoryAdmitter(8, 10*time.Second)

	for i := 0; i < 8; i++ {
		assert.True(t, a.Admit("send:user-1"), "request %d should be admitted", i+1)
	}
	assert.False(t, a.Admit("send:user-1"), "9th request in window should be denied")
	assert.False(t, a.Admit("send:user-1"), "denials persist until the window expires")
}

func TestMemoryAdmitterKeysAreIndependent(t *testing.T) {
	a := NewMemoryAdmitter(1, 10*time.Second)

	assert.True(t, a.Admit("send:user-1"))
	assert.False(t, a.Admit("send:user-1"))
	assert.True(t, a.Admit("send:user-2"), "a different key has its own counter")
}

func TestMemoryAdmitterWindowExpiry(t *testing.T) {
	a := NewMemoryAdmitter(1, 50*time.Millisecond)

	assert.True(t, a.Admit("send:user-1"))
	assert.False(t, a.Admit("send:user-1"))

	time.Sleep(80 * time.Millisecond)

	assert.True(t, a.Admit("send:user-1"), "expired window starts a fresh count")
}

func TestMemoryAdmitterZeroLimitDeniesAll(t *testing.T) {
	a := NewMemoryAdmitter(0, 10*time.Second)
	assert.False(t, a.Admit("send:user-1"))
}

func TestMemoryAdmitterConcurrentSameKey(t *testing.T) {
	const limit = 8
	a := NewMemoryAdmitter(limit, 10*time.Second)

	results := make(chan bool, 32)
	for i := 0; i < 32; i++ {
		go func() {
			results <- a.Admit("send:burst")
		}()
	}

	admitted := 0
	for i := 0; i < 32; i++ {
		if <-results {
			admitted++
		}
	}
	assert.LessOrEqual(t, admitted, limit, fmt.Sprintf("at most %d of a concurrent burst may pass", limit))
	assert.Greater(t, admitted, 0, "at least one request must pass")
}
