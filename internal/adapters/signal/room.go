package signal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/core"
	"github.com/telecare/signaling/internal/domain"
)

type roomEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	// Informational on join; identity is taken from the verified token.
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
	UserRole string `json:"userRole,omitempty"`
}

func (ctl *Controller) handleJoinRoom(ctx context.Context, sid core.SessionID, c *wsConn, data []byte) {
	var p roomEvent
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		ctl.sendError(c, errors.New("bad_payload"))
		return
	}

	// The join payload still carries userId for wire compatibility, but
	// it may not contradict the authenticated identity.
	if sess, ok := ctl.Orch.Registry.GetSession(sid); ok {
		if p.UserID != "" && domain.UserID(p.UserID) != sess.Meta().UserID {
			ctl.sendError(c, errors.New("not allowed: userId does not match the authenticated user"))
			return
		}
	}

	roomID := domain.RoomID(p.RoomID)
	res, err := ctl.Orch.Join(ctx, sid, roomID)
	if err != nil {
		ctl.sendError(c, err)
		return
	}

	ctl.sendJSON(c, struct {
		Type string `json:"type"`
		domain.CallState
	}{Type: "call-state", CallState: res.State})

	// Idle waiting rooms stay quiet: presence is only announced while a
	// call is underway.
	if !res.State.Active {
		return
	}

	sess, ok := ctl.Orch.Registry.GetSession(sid)
	if !ok {
		return
	}
	meta := sess.Meta()
	ctl.fanOut(res.Others, sid, struct {
		Type   string         `json:"type"`
		UserID domain.UserID  `json:"userId"`
		Name   string         `json:"userName"`
		SID    core.SessionID `json:"connectionId"`
	}{"user-joined", meta.UserID, meta.Name, sid})

	ctl.sendJSON(c, struct {
		Type  string           `json:"type"`
		Users []core.MemberDTO `json:"users"`
	}{"room-users", memberDTOs(res.Others)})
}

func (ctl *Controller) handleStartCall(ctx context.Context, sid core.SessionID, c *wsConn, data []byte) {
	var p roomEvent
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		ctl.sendError(c, errors.New("bad_payload"))
		return
	}

	change, err := ctl.Orch.StartCall(ctx, sid, domain.RoomID(p.RoomID))
	if err != nil {
		ctl.sendError(c, err)
		return
	}
	log.Info().Str("module", "signal").Str("room", p.RoomID).Str("by", string(change.Actor.UserID)).Msg("call started")

	ctl.fanOut(change.Members, "", struct {
		Type          string        `json:"type"`
		StartedBy     domain.UserID `json:"startedBy"`
		StartedByName string        `json:"startedByName"`
	}{"call-started", change.Actor.UserID, change.Actor.Name})

	// Everyone gets the refreshed member list so peers can begin dialing
	// each other.
	ctl.fanOut(change.Members, "", struct {
		Type  string           `json:"type"`
		Users []core.MemberDTO `json:"users"`
	}{"room-users", memberDTOs(change.Members)})
}

func (ctl *Controller) handleEndCall(ctx context.Context, sid core.SessionID, c *wsConn, data []byte) {
	var p roomEvent
	if err := json.Unmarshal(data, &p); err != nil || p.RoomID == "" {
		ctl.sendError(c, errors.New("bad_payload"))
		return
	}

	change, err := ctl.Orch.EndCall(ctx, sid, domain.RoomID(p.RoomID))
	if err != nil {
		ctl.sendError(c, err)
		return
	}
	log.Info().Str("module", "signal").Str("room", p.RoomID).Str("by", string(change.Actor.UserID)).Msg("call ended")

	ctl.fanOut(change.Members, "", struct {
		Type        string        `json:"type"`
		EndedBy     domain.UserID `json:"endedBy"`
		EndedByName string        `json:"endedByName"`
	}{"call-ended", change.Actor.UserID, change.Actor.Name})
}

func (ctl *Controller) handleDisconnect(sid core.SessionID) {
	dep, ok := ctl.Orch.Disconnect(sid)
	if !ok || dep.RoomID == "" {
		return
	}
	ctl.fanOut(dep.Remaining, sid, struct {
		Type   string         `json:"type"`
		UserID domain.UserID  `json:"userId"`
		Name   string         `json:"userName"`
		SID    core.SessionID `json:"connectionId"`
	}{"user-left", dep.Member.UserID, dep.Member.Name, sid})
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(dep.RoomID)).Msg("user left room")
}
