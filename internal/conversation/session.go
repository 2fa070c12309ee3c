package conversation

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pkordes/packlist/internal/weather"
)

// State is a step of the trip conversation.
type State int

const (
	AwaitingDestination State = iota
	AwaitingStartDate
	AwaitingDuration
	AwaitingPurpose
	Completed
)

func (s State) String() string {
	switch s {
	case AwaitingDestination:
		return "awaiting_destination"
	case AwaitingStartDate:
		return "awaiting_start_date"
	case AwaitingDuration:
		return "awaiting_duration"
	case AwaitingPurpose:
		return "awaiting_purpose"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Session is the in-progress trip of one user. Fields are filled strictly in
// State order. mu serializes steps; closed is set without taking mu so that a
// cancel never waits for a running step.
type Session struct {
	mu     sync.Mutex
	closed atomic.Bool

	State           State
	Destination     string
	StartDateText   string
	StartDate       time.Time
	DurationDays    int
	PurposeText     string
	PurposeCategory string
	Weather         *weather.Report
}

// Closed reports whether the session was cancelled, restarted, finished or
// expired. Results computed for a closed session are discarded.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Sessions holds at most one Session per user. Idle sessions expire after the
// configured TTL; every handled step renews it.
type Sessions struct {
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
}

// NewSessions creates an empty store whose sessions expire after ttl of
// inactivity.
func NewSessions(ttl time.Duration) *Sessions {
	c := cache.New(ttl, time.Minute)
	c.OnEvicted(func(_ string, v any) {
		if s, ok := v.(*Session); ok {
			s.closed.Store(true)
		}
	})
	return &Sessions{items: c, ttl: ttl}
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Begin discards the user's current session, if any, and returns a fresh one
// awaiting a destination.
func (ss *Sessions) Begin(userID int64) *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if old, ok := ss.items.Get(key(userID)); ok {
		old.(*Session).closed.Store(true)
	}
	s := &Session{State: AwaitingDestination}
	ss.items.Set(key(userID), s, ss.ttl)
	return s
}

// Get returns the user's live session.
func (ss *Sessions) Get(userID int64) (*Session, bool) {
	v, ok := ss.items.Get(key(userID))
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	if s.Closed() {
		return nil, false
	}
	return s, true
}

// Cancel closes and removes the user's session. It reports whether there was
// one.
func (ss *Sessions) Cancel(userID int64) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	v, ok := ss.items.Get(key(userID))
	if !ok {
		return false
	}
	wasOpen := !v.(*Session).closed.Swap(true)
	ss.items.Delete(key(userID))
	return wasOpen
}

// Touch renews the expiry of s if it is still the user's current session.
func (ss *Sessions) Touch(userID int64, s *Session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if v, ok := ss.items.Get(key(userID)); ok && v == s && !s.Closed() {
		ss.items.Set(key(userID), s, ss.ttl)
	}
}

// Finish closes s and removes it if it is still the user's current session.
func (ss *Sessions) Finish(userID int64, s *Session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s.closed.Store(true)
	if v, ok := ss.items.Get(key(userID)); ok && v == s {
		ss.items.Delete(key(userID))
	}
}

// Len returns the number of stored sessions, including expired ones not yet
// swept.
func (ss *Sessions) Len() int {
	return ss.items.ItemCount()
}
