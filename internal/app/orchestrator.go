package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/core"
	"github.com/telecare/signaling/internal/domain"
)

// Orchestrator wires guard, call registry and session registry into the
// join/start/end/disconnect flows. It validates fully before mutating
// anything: a failed lookup can never leave a half-attached session or
// a half-started call behind.
type Orchestrator struct {
	Registry *Registry
	Calls    *CallRegistry
	Guard    *Guard
}

// JoinResult is what the joiner needs to render: the room's call state
// and, when a call is underway, who is already in it.
type JoinResult struct {
	State  domain.CallState
	Others []MemberSnap
}

// CallChange reports a start/end transition: the resulting state, the
// actor, and the room's membership at the time of the change.
type CallChange struct {
	State   domain.CallState
	Actor   *domain.Member
	Members []MemberSnap
}

// Departure reports a detached session and who is left to notify.
type Departure struct {
	Member    *domain.Member
	RoomID    domain.RoomID
	Remaining []MemberSnap
}

// Join admits sid into roomID. The appointment is resolved fresh and the
// session is attached only after every check passes. Rooms joined while
// idle stay quiet: presence is only reported when a call is active.
func (o *Orchestrator) Join(ctx context.Context, sid core.SessionID, roomID domain.RoomID) (*JoinResult, error) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return nil, ErrNotInRoom
	}
	if bound, _, already := o.Registry.RoomOf(sid); already {
		log.Warn().Str("module", "app.orch").Str("sid", string(sid)).Str("bound", string(bound)).Msg("double join rejected")
		return nil, ErrAlreadyBound
	}

	meta := sess.Meta()
	appt, err := o.Guard.CheckJoin(ctx, roomID, meta.UserID, meta.Role)
	if err != nil {
		return nil, err
	}

	if err := o.Registry.Attach(sid, roomID); err != nil {
		return nil, err
	}
	meta.AppointmentID = appt.ID

	res := &JoinResult{State: o.Calls.State(roomID)}
	if res.State.Active {
		for _, snap := range o.Registry.MembersOfRoom(roomID) {
			if snap.SID != sid {
				res.Others = append(res.Others, snap)
			}
		}
	}
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("room", string(roomID)).
		Str("user", string(meta.UserID)).Str("role", string(meta.Role)).Bool("call_active", res.State.Active).Msg("joined room")
	return res, nil
}

// StartCall transitions the caller's room to active. The caller must be
// bound to roomID and pass the control check against a fresh appointment
// read. Concurrent starts resolve last-write-wins in the call registry.
func (o *Orchestrator) StartCall(ctx context.Context, sid core.SessionID, roomID domain.RoomID) (*CallChange, error) {
	meta, err := o.boundMember(sid, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := o.Guard.CheckControl(ctx, roomID, meta.UserID, meta.Role); err != nil {
		return nil, err
	}
	state := o.Calls.SetActive(roomID, meta.UserID)
	return &CallChange{State: state, Actor: meta, Members: o.Registry.MembersOfRoom(roomID)}, nil
}

// EndCall transitions the caller's room back to idle. Ending an already
// idle call is a no-op that still succeeds and still notifies the room.
func (o *Orchestrator) EndCall(ctx context.Context, sid core.SessionID, roomID domain.RoomID) (*CallChange, error) {
	meta, err := o.boundMember(sid, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := o.Guard.CheckControl(ctx, roomID, meta.UserID, meta.Role); err != nil {
		return nil, err
	}
	state := o.Calls.SetInactive(roomID)
	return &CallChange{State: state, Actor: meta, Members: o.Registry.MembersOfRoom(roomID)}, nil
}

// Disconnect tears the session down and reports who should hear about
// it. Cleanup always happens, whether or not anyone can be notified.
func (o *Orchestrator) Disconnect(sid core.SessionID) (*Departure, bool) {
	member, roomID, ok := o.Registry.Detach(sid)
	if !ok {
		return nil, false
	}
	dep := &Departure{Member: member, RoomID: roomID}
	if roomID != "" {
		dep.Remaining = o.Registry.MembersOfRoom(roomID)
	}
	return dep, true
}

func (o *Orchestrator) boundMember(sid core.SessionID, roomID domain.RoomID) (*domain.Member, error) {
	bound, sess, ok := o.Registry.RoomOf(sid)
	if !ok || bound != roomID {
		return nil, ErrNotInRoom
	}
	return sess.Meta(), nil
}
