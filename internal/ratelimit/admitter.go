// Package ratelimit provides the admission check guarding mutating chat
// operations. The default store is process-local; a Redis-backed store can
// be swapped in without touching callers.
package ratelimit

// Admitter decides whether one more action is allowed for a key within the
// current fixed window.
type Admitter interface {
	Admit(key string) bool
}
