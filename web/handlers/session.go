package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionCookie is the cookie carrying the session identifier.
const sessionCookie = "ac_session"

// SessionTracker tracks per-session analysis usage. State is per-session and
// in-memory only: it never leaks across sessions and resets on restart.
type SessionTracker struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	limit    int
	ttl      time.Duration
}

type sessionEntry struct {
	count    int
	lastSeen time.Time
}

// NewSessionTracker creates a tracker allowing limit analyses per session.
// Sessions idle longer than ttl are forgotten.
func NewSessionTracker(limit int, ttl time.Duration) *SessionTracker {
	if limit <= 0 {
		limit = 3
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionTracker{
		sessions: make(map[string]*sessionEntry),
		limit:    limit,
		ttl:      ttl,
	}
}

// Resolve returns the request's session ID, minting a new one (and setting
// the cookie) when the request carries none.
func (t *SessionTracker) Resolve(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Consume records one analysis for the session. Returns the remaining quota
// and false when the session has exhausted its allowance.
func (t *SessionTracker) Consume(id string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked()

	entry, ok := t.sessions[id]
	if !ok {
		entry = &sessionEntry{}
		t.sessions[id] = entry
	}
	entry.lastSeen = time.Now()

	if entry.count >= t.limit {
		return 0, false
	}
	entry.count++
	return t.limit - entry.count, true
}

// Remaining returns the session's remaining quota without consuming it.
func (t *SessionTracker) Remaining(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.sessions[id]
	if !ok {
		return t.limit
	}
	remaining := t.limit - entry.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// pruneLocked drops sessions idle longer than the TTL. Caller holds the lock.
func (t *SessionTracker) pruneLocked() {
	cutoff := time.Now().Add(-t.ttl)
	for id, entry := range t.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(t.sessions, id)
		}
	}
}
