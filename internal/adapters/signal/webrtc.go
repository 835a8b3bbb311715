package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/app"
	"github.com/telecare/signaling/internal/core"
	"github.com/telecare/signaling/internal/domain"
)

// targetedPayload carries one of offer/answer/candidate as an opaque
// blob. The relay never inspects SDP or ICE contents.
type targetedPayload struct {
	Type      string          `json:"type"`
	Target    string          `json:"target"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// handleTargeted relays offer/answer/ice-candidate to exactly one peer,
// annotated with the sender's identity. Never broadcast. Delivery is
// fire-and-forget: an unknown or gone target is dropped, not errored.
func (ctl *Controller) handleTargeted(sid core.SessionID, c *wsConn, kind string, data []byte) {
	var p targetedPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Target == "" {
		ctl.sendError(c, errors.New("bad_payload"))
		return
	}

	roomID, sess, ok := ctl.Orch.Registry.RoomOf(sid)
	if !ok {
		ctl.sendError(c, app.ErrNotInRoom)
		return
	}
	meta := sess.Meta()

	// The target must share the sender's room; anything else is treated
	// the same as a gone target and dropped.
	targetRoom, dst, ok := ctl.Orch.Registry.RoomOf(core.SessionID(p.Target))
	if !ok || targetRoom != roomID {
		log.Warn().Str("module", "signal").Str("kind", kind).Str("target", p.Target).Msg("relay target gone or outside room")
		return
	}

	out := struct {
		Type      string          `json:"type"`
		Offer     json.RawMessage `json:"offer,omitempty"`
		Answer    json.RawMessage `json:"answer,omitempty"`
		Candidate json.RawMessage `json:"candidate,omitempty"`
		Sender    core.SessionID  `json:"sender"`
		SenderID  domain.UserID   `json:"senderId"`
		Name      string          `json:"senderName"`
	}{
		Type:      kind,
		Offer:     p.Offer,
		Answer:    p.Answer,
		Candidate: p.Candidate,
		Sender:    sid,
		SenderID:  meta.UserID,
		Name:      meta.Name,
	}
	ctl.sendJSON(dst.Signal(), out)
}
