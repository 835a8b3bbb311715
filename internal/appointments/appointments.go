// Package appointments is the narrow read-only interface to the clinic
// backend's appointment records. The signaling core never mutates them
// and never caches them: every join/start attempt resolves fresh so
// authorization always reflects the latest appointment status.
package appointments

import (
	"context"
	"errors"

	"github.com/telecare/signaling/internal/domain"
)

// ErrNotFound means no appointment matches the room key.
var ErrNotFound = errors.New("appointment not found")

// Lookup resolves a room key (meeting-room token or appointment ID) to
// its appointment. Any error other than ErrNotFound is an upstream
// failure and must be treated as retry-later by callers.
type Lookup interface {
	ResolveByRoomKey(ctx context.Context, key domain.RoomID) (*domain.Appointment, error)
}
