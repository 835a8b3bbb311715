package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/app"
	"github.com/telecare/signaling/internal/core"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ping := time.NewTicker(ctl.PingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid core.SessionID, c *wsConn) {
	defer func() {
		// Disconnect is the only cancellation signal: session cleanup
		// runs unconditionally, the leave broadcast is best-effort.
		ctl.handleDisconnect(sid)
		c.Close()
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleEvent(ctx, sid, c, data)
		}
	}
}

func (ctl *Controller) handleEvent(ctx context.Context, sid core.SessionID, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, errors.New("bad_payload"))
		return
	}

	switch env.Type {
	case "join-room":
		ctl.handleJoinRoom(ctx, sid, c, data)
	case "start-call":
		ctl.handleStartCall(ctx, sid, c, data)
	case "end-call":
		ctl.handleEndCall(ctx, sid, c, data)
	case "offer", "answer", "ice-candidate":
		ctl.handleTargeted(sid, c, env.Type, data)
	case "user-audio-status":
		ctl.handleAudioStatus(sid, c, data)
	case "user-video-status":
		ctl.handleVideoStatus(sid, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *Controller) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// sendError reports a rejected action to the offending connection only.
// Upstream failures are collapsed to a generic retry-later message so
// internals never leak to clients.
func (ctl *Controller) sendError(c core.SignalConnection, err error) {
	msg := err.Error()
	if errors.Is(err, app.ErrUpstreamUnavailable) {
		msg = app.ErrUpstreamUnavailable.Error()
	}
	ctl.sendJSON(c, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"error", msg})
}

// fanOut delivers v to every listed member except the excluded sid.
// Delivery is fire-and-forget per member; a slow consumer drops frames
// rather than stalling the room.
func (ctl *Controller) fanOut(members []app.MemberSnap, exclude core.SessionID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("fanOut marshal")
		return
	}
	for _, m := range members {
		if m.SID == exclude {
			continue
		}
		if err := m.Session.Signal().TrySend(b); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("dst", string(m.SID)).Msg("fanOut drop")
		}
	}
}

func memberDTOs(members []app.MemberSnap) []core.MemberDTO {
	out := make([]core.MemberDTO, 0, len(members))
	for _, m := range members {
		meta := m.Session.Meta()
		out = append(out, core.MemberDTO{SID: m.SID, UserID: meta.UserID, Name: meta.Name})
	}
	return out
}
