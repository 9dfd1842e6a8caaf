package auth

import "testing"

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"employee", "hr", "admin"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("ParseRole(%q) rejected a valid role", valid)
		}
	}
	for _, invalid := range []string{"", "EMPLOYEE", "root", "superuser"} {
		if _, ok := ParseRole(invalid); ok {
			t.Errorf("ParseRole(%q) accepted an unknown role", invalid)
		}
	}
}

func TestCan(t *testing.T) {
	actions := []Action{ActionListUsers, ActionPromoteUser, ActionDeleteUser}
	for _, action := range actions {
		if !Can(RoleAdmin, false, action) {
			t.Errorf("admin denied action %d", action)
		}
		if Can(RoleEmployee, false, action) {
			t.Errorf("employee allowed action %d", action)
		}
		if Can(RoleHR, false, action) {
			t.Errorf("hr allowed action %d", action)
		}
		// The superuser flag bypasses the role check regardless of role.
		if !Can(RoleEmployee, true, action) {
			t.Errorf("superuser employee denied action %d", action)
		}
	}
}

func TestProtectedRoles(t *testing.T) {
	if !RoleAdmin.Protected() || !RoleHR.Protected() {
		t.Fatal("admin and hr must be protected from deletion")
	}
	if RoleEmployee.Protected() {
		t.Fatal("employee must be deletable")
	}
}
