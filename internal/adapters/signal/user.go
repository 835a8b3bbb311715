package signal

import (
	"encoding/json"
	"errors"

	"github.com/telecare/signaling/internal/app"
	"github.com/telecare/signaling/internal/core"
	"github.com/telecare/signaling/internal/domain"
)

func (ctl *Controller) handleAudioStatus(sid core.SessionID, c *wsConn, data []byte) {
	var p struct {
		Type    string `json:"type"`
		IsMuted bool   `json:"isMuted"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, errors.New("bad_payload"))
		return
	}
	roomID, sess, ok := ctl.Orch.Registry.RoomOf(sid)
	if !ok {
		ctl.sendError(c, app.ErrNotInRoom)
		return
	}
	meta := sess.Meta()
	ctl.fanOut(ctl.Orch.Registry.MembersOfRoom(roomID), sid, struct {
		Type    string        `json:"type"`
		UserID  domain.UserID `json:"userId"`
		Name    string        `json:"userName"`
		IsMuted bool          `json:"isMuted"`
	}{"user-audio-status", meta.UserID, meta.Name, p.IsMuted})
}

func (ctl *Controller) handleVideoStatus(sid core.SessionID, c *wsConn, data []byte) {
	var p struct {
		Type       string `json:"type"`
		IsVideoOff bool   `json:"isVideoOff"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.sendError(c, errors.New("bad_payload"))
		return
	}
	roomID, sess, ok := ctl.Orch.Registry.RoomOf(sid)
	if !ok {
		ctl.sendError(c, app.ErrNotInRoom)
		return
	}
	meta := sess.Meta()
	ctl.fanOut(ctl.Orch.Registry.MembersOfRoom(roomID), sid, struct {
		Type       string        `json:"type"`
		UserID     domain.UserID `json:"userId"`
		Name       string        `json:"userName"`
		IsVideoOff bool          `json:"isVideoOff"`
	}{"user-video-status", meta.UserID, meta.Name, p.IsVideoOff})
}
