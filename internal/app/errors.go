package app

import "errors"

// Handler-boundary taxonomy: every failure a connection can provoke maps
// to one of these, and each becomes a single error event to that
// connection only. None of them tears down the transport or mutates
// room or session state.
var (
	ErrNotFound            = errors.New("no appointment for this room")
	ErrForbidden           = errors.New("not allowed")
	ErrAlreadyBound        = errors.New("already joined a room")
	ErrNotInRoom           = errors.New("not joined to a room")
	ErrUpstreamUnavailable = errors.New("appointment service unavailable, try again")
)
