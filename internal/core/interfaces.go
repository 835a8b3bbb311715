package core

import "github.com/telecare/signaling/internal/domain"

// Frame is a marshaled signaling event ready for the wire.
type Frame []byte

// SessionID is the transport-assigned connection identifier, unique for
// the process lifetime. It is what clients address targeted signaling
// (offer/answer/ICE) with.
type SessionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds a domain.Member and its transport endpoint.
// This is what the registry stores and fans out to.
type MemberSession interface {
	Meta() *domain.Member
	Signal() SignalConnection
}

// MemberDTO is a read-only presence view for the wire (no transport fields).
type MemberDTO struct {
	SID    SessionID     `json:"connectionId"`
	UserID domain.UserID `json:"userId"`
	Name   string        `json:"userName"`
}
