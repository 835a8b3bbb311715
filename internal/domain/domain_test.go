package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"user", RoleUser, false},
		{"doctor", RoleDoctor, false},
		{"admin", RoleAdmin, false},
		{"", RoleUser, false},
		{"superuser", "", true},
		{"Doctor", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadRole) {
				t.Errorf("ParseRole(%q) err = %v, want ErrBadRole", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRole(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRoleCanControlCall(t *testing.T) {
	if RoleUser.CanControlCall() {
		t.Errorf("user can control call")
	}
	if !RoleDoctor.CanControlCall() || !RoleAdmin.CanControlCall() {
		t.Errorf("doctor/admin cannot control call")
	}
}

func TestNewMemberValidation(t *testing.T) {
	if _, err := NewMember("u1", "", RoleUser); !errors.Is(err, ErrNameEmpty) {
		t.Errorf("empty name err = %v", err)
	}
	long := strings.Repeat("x", MaxDisplayNameLen+1)
	if _, err := NewMember("u1", long, RoleUser); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("long name err = %v", err)
	}
	m, err := NewMember("u1", "Alice", RoleUser)
	if err != nil || m.UserID != "u1" || m.AppointmentID != "" {
		t.Errorf("member = %+v, %v", m, err)
	}
}

func TestAppointmentHelpers(t *testing.T) {
	a := &Appointment{ID: "a1", PatientUserID: "p1", DoctorUserID: "d1", Status: StatusScheduled}
	if a.Completed() {
		t.Errorf("scheduled reported completed")
	}
	if !a.IsParty("p1") || !a.IsParty("d1") || a.IsParty("x") {
		t.Errorf("IsParty misclassified")
	}
	a.Status = StatusCompleted
	if !a.Completed() {
		t.Errorf("completed not reported")
	}
}
