package domain

// RoomID is the key a call session is addressed by: either the
// appointment's dedicated meeting-room token or the appointment ID
// itself. Both resolve to the same appointment.
type RoomID string

// CallState is the active/inactive flag plus initiator for a room.
// StartedBy is nil exactly when the call is inactive.
type CallState struct {
	Active    bool    `json:"isActive"`
	StartedBy *UserID `json:"startedBy"`
}
