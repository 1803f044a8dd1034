package model

// User roles. Self-registration always yields RoleUser; elevated roles
// are assigned out of band.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleDoctor = "doctor"
	RoleNurse  = "nurse"
	RoleStaff  = "staff"
)

// Roles lists every valid role value.
var Roles = []string{RoleUser, RoleAdmin, RoleDoctor, RoleNurse, RoleStaff}

// StaffRoles are the roles with access to clinical records.
var StaffRoles = []string{RoleAdmin, RoleDoctor, RoleNurse, RoleStaff}

type User struct {
	Base
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	FullName     string `json:"fullName" db:"full_name"`
	Role         string `json:"role" db:"role"`
	IsActive     bool   `json:"isActive" db:"is_active"`
}

// Summary is the user shape returned alongside a login token.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}
