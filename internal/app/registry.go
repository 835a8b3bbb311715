package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/core"
	"github.com/telecare/signaling/internal/domain"
)

type sessionEntry struct {
	RoomID  domain.RoomID
	Session core.MemberSession
	Cancel  context.CancelFunc
}

// Registry tracks every live connection session and which room it is
// bound to. Room presence is a view over this map, not stored state, so
// it can never drift from actual membership.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

// BindSignal registers a freshly connected session with no room yet.
func (r *Registry) BindSignal(sid core.SessionID, sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

// Attach binds the session to a room. A session already bound to any
// room is rejected; multi-room membership is unsupported and callers
// must disconnect and rejoin instead.
func (r *Registry) Attach(sid core.SessionID, roomID domain.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return ErrNotInRoom
	}
	if e.RoomID != "" {
		return ErrAlreadyBound
	}
	e.RoomID = roomID
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Msg("attached to room")
	return nil
}

// Detach removes the session entirely and returns its last-known
// attributes for the leave notification. ok is false when the session
// was never registered. The session's cancel func fires here so the
// connection's child context is released along with the entry.
func (r *Registry) Detach(sid core.SessionID) (member *domain.Member, roomID domain.RoomID, ok bool) {
	r.mu.Lock()
	e, ok := r.sessions[sid]
	if !ok {
		r.mu.Unlock()
		return nil, "", false
	}
	delete(r.sessions, sid)
	r.mu.Unlock()
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(e.RoomID)).Msg("detached")
	return e.Session.Meta(), e.RoomID, true
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// RoomOf returns the room the session is bound to, if any.
func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomID, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.RoomID == "" {
		return "", nil, false
	}
	return e.RoomID, e.Session, true
}

// MemberSnap pairs a session with its id for fan-out.
type MemberSnap struct {
	SID     core.SessionID
	Session core.MemberSession
}

// MembersOfRoom enumerates live sessions bound to the room. This is the
// presence source of truth; there is no separate membership store to
// invalidate.
func (r *Registry) MembersOfRoom(roomID domain.RoomID) []MemberSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSnap, 0, len(r.sessions))
	for sid, e := range r.sessions {
		if e.RoomID == roomID {
			out = append(out, MemberSnap{SID: sid, Session: e.Session})
		}
	}
	return out
}
