package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/telecare/signaling/internal/appointments"
	"github.com/telecare/signaling/internal/domain"
)

// Guard decides admission to rooms and call control against the
// appointment record. It is the only component that talks to the
// clinic backend, and it does so before any state is touched.
type Guard struct {
	Lookup appointments.Lookup
}

// CheckJoin resolves the room key and decides whether the caller may
// join. Doctors and admins may join any non-completed appointment room;
// everyone else must be a party to the appointment.
func (g *Guard) CheckJoin(ctx context.Context, key domain.RoomID, uid domain.UserID, role domain.Role) (*domain.Appointment, error) {
	appt, err := g.resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if role.CanControlCall() || appt.IsParty(uid) {
		return appt, nil
	}
	log.Warn().Str("module", "app.guard").Str("room", string(key)).Str("user", string(uid)).Str("role", string(role)).Msg("join rejected")
	return nil, fmt.Errorf("%w: not a participant of this appointment", ErrForbidden)
}

// CheckControl decides whether the caller may start or end the call.
// Admins always may; a doctor only for their own appointment. Patients
// never. Appointment date is deliberately not checked so a doctor can
// start a late call for a past-dated, non-completed appointment.
func (g *Guard) CheckControl(ctx context.Context, key domain.RoomID, uid domain.UserID, role domain.Role) (*domain.Appointment, error) {
	appt, err := g.resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin {
		return appt, nil
	}
	if role == domain.RoleDoctor && uid == appt.DoctorUserID {
		return appt, nil
	}
	log.Warn().Str("module", "app.guard").Str("room", string(key)).Str("user", string(uid)).Str("role", string(role)).Msg("call control rejected")
	return nil, fmt.Errorf("%w: only the appointment's doctor can control the call", ErrForbidden)
}

func (g *Guard) resolve(ctx context.Context, key domain.RoomID) (*domain.Appointment, error) {
	appt, err := g.Lookup.ResolveByRoomKey(ctx, key)
	if errors.Is(err, appointments.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("module", "app.guard").Str("room", string(key)).Msg("appointment lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if appt.Completed() {
		return nil, fmt.Errorf("%w: appointment already completed", ErrForbidden)
	}
	return appt, nil
}
