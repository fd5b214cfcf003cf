package auth

import "time"

// Role is a court user role.
type Role string

// Court roles.
const (
	RoleAdmin          Role = "admin"
	RoleJudge          Role = "judge"
	RoleClerk          Role = "clerk"
	RoleStenographer   Role = "stenographer"
	RoleProsecutor     Role = "prosecutor"
	RoleDefenseCounsel Role = "defense_counsel"
	RoleRegistrar      Role = "registrar"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleJudge, RoleClerk, RoleStenographer, RoleProsecutor, RoleDefenseCounsel, RoleRegistrar}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	for _, role := range Roles {
		if string(role) == r {
			return true
		}
	}
	return false
}

// User is an account that can sign in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Court        string    `json:"court,omitempty"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserFilter narrows a user listing.
type UserFilter struct {
	Query  string
	Role   string
	Active *bool
	Page   int64
	Limit  int64
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  int64
	Role    Role
	Name    string
	TokenID string
}

// HasRole reports whether the principal holds one of roles.
func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the principal can see other users' records.
func (p Principal) IsPrivileged() bool {
	return p.HasRole(RoleJudge, RoleAdmin)
}
