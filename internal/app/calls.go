package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/domain"
)

// callEntry is the per-room call state. Each entry carries its own lock
// so unrelated rooms never serialize on each other; the registry map
// lock only guards entry creation.
type callEntry struct {
	mu           sync.Mutex
	active       bool
	startedBy    domain.UserID
	lastActivity time.Time
}

// CallRegistry is the single source of truth for "is a call active, who
// started it", keyed by room. Entries are created lazily on first
// reference and reset to inactive rather than deleted; the sweeper
// reclaims rooms that stayed idle past the retention window.
type CallRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*callEntry

	now func() time.Time // swappable in tests
}

func NewCallRegistry() *CallRegistry {
	return &CallRegistry{
		rooms: make(map[domain.RoomID]*callEntry),
		now:   time.Now,
	}
}

func (c *CallRegistry) entry(roomID domain.RoomID) *callEntry {
	c.mu.RLock()
	e, ok := c.rooms[roomID]
	c.mu.RUnlock()
	if ok {
		return e
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok = c.rooms[roomID]; ok {
		return e
	}
	e = &callEntry{lastActivity: c.now()}
	c.rooms[roomID] = e
	return e
}

// State returns the current call state, creating a default inactive
// entry if the room was never referenced. Never errors.
func (c *CallRegistry) State(roomID domain.RoomID) domain.CallState {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActivity = c.now()
	return e.state()
}

// SetActive marks the room's call as started by uid and returns the
// resulting state. Concurrent starters race last-write-wins: the second
// writer overwrites startedBy and both callers see success. Known
// product-level tension, kept deliberately.
func (c *CallRegistry) SetActive(roomID domain.RoomID, uid domain.UserID) domain.CallState {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = true
	e.startedBy = uid
	e.lastActivity = c.now()
	log.Info().Str("module", "app.calls").Str("room", string(roomID)).Str("started_by", string(uid)).Msg("call active")
	return e.state()
}

// SetInactive resets the room to idle. A no-op when already idle, so
// ending an ended call is not an error.
func (c *CallRegistry) SetInactive(roomID domain.RoomID) domain.CallState {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.startedBy = ""
	e.lastActivity = c.now()
	log.Info().Str("module", "app.calls").Str("room", string(roomID)).Msg("call inactive")
	return e.state()
}

// state must be called with e.mu held.
func (e *callEntry) state() domain.CallState {
	st := domain.CallState{Active: e.active}
	if e.active {
		uid := e.startedBy
		st.StartedBy = &uid
	}
	return st
}

// Sweep drops inactive entries whose last activity is older than
// retention, returning how many were removed. Active calls are never
// swept regardless of age.
func (c *CallRegistry) Sweep(retention time.Duration) int {
	cutoff := c.now().Add(-retention)
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for roomID, e := range c.rooms {
		e.mu.Lock()
		stale := !e.active && e.lastActivity.Before(cutoff)
		e.mu.Unlock()
		if stale {
			delete(c.rooms, roomID)
			removed++
		}
	}
	if removed > 0 {
		log.Info().Str("module", "app.calls").Int("removed", removed).Msg("swept idle rooms")
	}
	return removed
}

// Run sweeps periodically until ctx is canceled. Not required for
// correctness, only to bound memory on long deployments.
func (c *CallRegistry) Run(ctx context.Context, interval, retention time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Sweep(retention)
		}
	}
}

// Snapshot returns the current state of every known room, for the admin
// listing. The copy is taken room by room, not atomically across rooms.
func (c *CallRegistry) Snapshot() map[domain.RoomID]domain.CallState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[domain.RoomID]domain.CallState, len(c.rooms))
	for roomID, e := range c.rooms {
		e.mu.Lock()
		out[roomID] = e.state()
		e.mu.Unlock()
	}
	return out
}

// Len reports how many room entries currently exist.
func (c *CallRegistry) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}
