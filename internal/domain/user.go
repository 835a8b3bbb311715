// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const MaxDisplayNameLen = 64

var (
	ErrNameEmpty   = errors.New("display name empty")
	ErrNameTooLong = errors.New("display name too long")
	ErrBadRole     = errors.New("unknown role")
)

type UserID string

// Role is the caller's position in an appointment. Patients are plain
// users; only doctors and admins may control a call.
type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleDoctor, RoleAdmin:
		return Role(s), nil
	case "":
		// Absent role means a regular patient account.
		return RoleUser, nil
	}
	return "", ErrBadRole
}

// CanControlCall reports whether the role alone is enough to start or
// end a call. Doctors additionally need to own the appointment.
func (r Role) CanControlCall() bool {
	return r == RoleDoctor || r == RoleAdmin
}
