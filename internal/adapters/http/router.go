// Package http wires the gin router: health, ICE config, the admin room
// listing and the WebSocket signaling endpoint.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/adapters/signal"
	"github.com/telecare/signaling/internal/app"
	"github.com/telecare/signaling/internal/config"
	"github.com/telecare/signaling/internal/domain"
)

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api", AuthMiddleware(cfg.Secret))

	ctl := signal.NewController(orch, cfg.ReadLimit, cfg.PingPeriod)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": ICEServers(cfg)})
	})

	api.GET("/rooms", func(c *gin.Context) {
		id, ok := signal.IdentityFrom(c)
		if !ok || id.Role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.JSON(http.StatusOK, listRooms(orch))
	})

	return r
}

type roomInfo struct {
	RoomID      domain.RoomID    `json:"roomId"`
	State       domain.CallState `json:"callState"`
	MemberCount int              `json:"memberCount"`
}

func listRooms(orch *app.Orchestrator) []roomInfo {
	states := orch.Calls.Snapshot()
	out := make([]roomInfo, 0, len(states))
	for roomID, st := range states {
		out = append(out, roomInfo{
			RoomID:      roomID,
			State:       st,
			MemberCount: len(orch.Registry.MembersOfRoom(roomID)),
		})
	}
	return out
}
