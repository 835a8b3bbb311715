package domain

type AppointmentID string

// AppointmentStatus mirrors the clinic backend's appointment lifecycle.
// Only "completed" matters for signaling: completed sessions are closed
// to new joins and to call start.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is the read-only view of an appointment record owned by
// the clinic backend. Fetched fresh on every join/start attempt, never
// cached or mutated here.
type Appointment struct {
	ID            AppointmentID
	PatientUserID UserID
	DoctorUserID  UserID
	Status        AppointmentStatus
	MeetingRoomID RoomID
}

func (a *Appointment) Completed() bool { return a.Status == StatusCompleted }

// IsParty reports whether uid is the patient or the doctor of this
// appointment.
func (a *Appointment) IsParty(uid UserID) bool {
	return uid == a.PatientUserID || uid == a.DoctorUserID
}
