package domain

import "fmt"

// Role is the closed set of user classifications that gate API access.
type Role string

const (
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
	RoleNormalUser  Role = "NORMAL_USER"
	RoleStoreOwner  Role = "STORE_OWNER"
)

// Roles lists every known role in a stable order.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleNormalUser, RoleStoreOwner}
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystemAdmin, RoleNormalUser, RoleStoreOwner:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts s to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}
