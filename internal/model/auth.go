package model

import "github.com/google/uuid"

// Principal is the authenticated caller attached to the request
// context by the auth middleware.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

// IsStaff reports whether the principal holds any clinical-staff role.
func (p *Principal) IsStaff() bool {
	for _, r := range StaffRoles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func (p *Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
