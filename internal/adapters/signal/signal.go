// Package signal is the WebSocket signaling adapter: it owns the
// transport, decodes inbound events and renders orchestrator results
// back onto the wire. No call-state decisions live here.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/app"
	"github.com/telecare/signaling/internal/core"
	"github.com/telecare/signaling/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Identity is the verified caller identity the HTTP layer extracts from
// the bearer token before the upgrade.
type Identity struct {
	UserID domain.UserID
	Name   string
	Role   domain.Role
}

const identityKey = "identity"

// SetIdentity stashes the verified identity on the request context for
// HandleSignal to pick up.
func SetIdentity(c *gin.Context, id Identity) { c.Set(identityKey, id) }

// IdentityFrom retrieves the identity placed by the auth middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

type Controller struct {
	Orch       *app.Orchestrator
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(orch *app.Orchestrator, readLimit int64, pingPeriod time.Duration) *Controller {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &Controller{Orch: orch, ReadLimit: readLimit, PingPeriod: pingPeriod}
}

// wsConn wraps a websocket connection with a bounded send queue.
// TrySend never blocks; a full queue is a dropped frame, mirroring the
// fire-and-forget delivery contract.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // CORS is enforced by the outer middleware
}

// HandleSignal upgrades the request and runs the connection's pumps.
// The connection id is transport-assigned here and is the address other
// peers use for targeted signaling.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	id, ok := IdentityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no identity"})
		return
	}

	member, err := domain.NewMember(id.UserID, id.Name, id.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", string(id.UserID)).Msg("new WS connection")

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	sess := core.NewMemberSession(member, conn)

	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.BindSignal(sid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}
