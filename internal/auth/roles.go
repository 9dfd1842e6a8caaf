package auth

// Role is the closed set of roles a user can hold. Values are stored as-is
// in the users table and in the access token's "role" claim.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleHR, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Action enumerates the guarded user-management operations.
type Action int

const (
	ActionListUsers Action = iota
	ActionPromoteUser
	ActionDeleteUser
)

// Can reports whether an identity with the given role and superuser flag may
// perform the action. The superuser flag bypasses the role check entirely;
// otherwise only admins manage users. Centralizing the check here keeps the
// admin/superuser bypass in one testable place instead of repeated per
// endpoint.
func Can(role Role, superuser bool, action Action) bool {
	if superuser {
		return true
	}
	switch action {
	case ActionListUsers, ActionPromoteUser, ActionDeleteUser:
		return role == RoleAdmin
	}
	return false
}

// Protected reports whether users holding this role may not be deleted
// through user management.
func (r Role) Protected() bool {
	return r == RoleAdmin || r == RoleHR
}
