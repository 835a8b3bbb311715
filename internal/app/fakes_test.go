package app

import (
	"context"
	"sync"
	"testing"

	"github.com/telecare/signaling/internal/appointments"
	"github.com/telecare/signaling/internal/core"
	"github.com/telecare/signaling/internal/domain"
)

type fakeLookup struct {
	appts map[domain.RoomID]*domain.Appointment
	err   error
}

func (f *fakeLookup) ResolveByRoomKey(_ context.Context, key domain.RoomID) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.appts {
		if key == a.MeetingRoomID || key == domain.RoomID(a.ID) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, appointments.ErrNotFound
}

// fakeConn records frames instead of writing to a socket.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            "appt-1",
		PatientUserID: "patient-1",
		DoctorUserID:  "doctor-1",
		Status:        domain.StatusScheduled,
		MeetingRoomID: "room-1",
	}
}

// connect registers a session the way the WS adapter does at upgrade.
func connect(t *testing.T, reg *Registry, sid core.SessionID, uid domain.UserID, name string, role domain.Role) *fakeConn {
	t.Helper()
	member, err := domain.NewMember(uid, name, role)
	if err != nil {
		t.Fatalf("NewMember: %v", err)
	}
	conn := &fakeConn{}
	reg.BindSignal(sid, core.NewMemberSession(member, conn), nil)
	return conn
}
