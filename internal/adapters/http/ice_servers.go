package http

import (
	"strings"

	"github.com/pion/webrtc/v4"

	"github.com/telecare/signaling/internal/config"
)

// ICEServers maps the configured STUN/TURN entries to the shape a
// browser RTCPeerConnection accepts. TURN entries without complete
// credentials are dropped rather than handed out broken.
func ICEServers(cfg *config.Config) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(cfg.ICEServers))
	for _, s := range cfg.ICEServers {
		if len(s.URLs) == 0 {
			continue
		}
		server := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" && s.Credential != "" {
			server.Username = s.Username
			server.Credential = s.Credential
		} else if hasTURNURL(s.URLs) {
			continue
		}
		out = append(out, server)
	}
	return out
}

func hasTURNURL(urls []string) bool {
	for _, u := range urls {
		u = strings.ToLower(strings.TrimSpace(u))
		if strings.HasPrefix(u, "turn:") || strings.HasPrefix(u, "turns:") {
			return true
		}
	}
	return false
}
