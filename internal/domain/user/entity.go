package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Platform operator, sees every company
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Office staff, capabilities per grant
	RoleOperator Role = "operator" // Field supervisor
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleManager, RoleOperator:
		return true
	}
	return false
}

// IsGlobal reports whether the role spans companies.
func (r Role) IsGlobal() bool {
	return r == RoleAdmin
}

type User struct {
	ID              string
	CompanyID       *string
	Name            string
	Email           string
	PasswordHash    *string
	Role            Role
	Permissions     Permissions
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// Sections is the capability set this user may reach.
func (u *User) Sections() CapabilitySet {
	return VisibleSections(u.Role, u.Permissions)
}
