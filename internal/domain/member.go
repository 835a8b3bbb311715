package domain

// Member is a connection's participation meta for a room. Identity
// fields come from the verified token at connect; AppointmentID is set
// once when the join is admitted. No transport or lifecycle logic here.
type Member struct {
	UserID        UserID
	Name          string
	Role          Role
	AppointmentID AppointmentID
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(uid UserID, name string, role Role) (*Member, error) {
	if name == "" {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return nil, ErrNameTooLong
	}
	return &Member{UserID: uid, Name: name, Role: role}, nil
}
