package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kavehram/rms-auth/internal/model"
)

type adminFixture struct {
	admin   *UserAdmin
	users   *memUsers
	tokens  *memTokens
	adminID uint64
	hrID    uint64
	empID   uint64
	superID uint64
}

func newAdminFixture() adminFixture {
	users := newMemUsers()
	tokens := newMemTokens()
	a := users.put(model.User{Email: "admin@x.com", Role: "admin", IsActive: true})
	h := users.put(model.User{Email: "hr@x.com", Role: "hr", IsActive: true})
	e := users.put(model.User{Email: "emp@x.com", Role: "employee", IsActive: true})
	s := users.put(model.User{Email: "super@x.com", Role: "employee", IsSuperuser: true, IsActive: true})
	return adminFixture{
		admin:   NewUserAdmin(users, tokens),
		users:   users,
		tokens:  tokens,
		adminID: a.ID,
		hrID:    h.ID,
		empID:   e.ID,
		superID: s.ID,
	}
}

func TestListRequiresAdminOrSuperuser(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	if _, err := f.admin.List(ctx, f.empID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employee list: err = %v, want ErrForbidden", err)
	}
	if _, err := f.admin.List(ctx, f.hrID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("hr list: err = %v, want ErrForbidden", err)
	}
	all, err := f.admin.List(ctx, f.adminID)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("admin sees %d users, want 4", len(all))
	}
	if _, err := f.admin.List(ctx, f.superID); err != nil {
		t.Fatalf("superuser list: %v", err)
	}
}

func TestPromote(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	if _, err := f.admin.Promote(ctx, f.empID, f.empID, "admin", true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("self-promotion by employee: err = %v, want ErrForbidden", err)
	}
	if _, err := f.admin.Promote(ctx, f.adminID, f.empID, "overlord", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown role: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.admin.Promote(ctx, f.adminID, 999, "hr", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown target: err = %v, want ErrNotFound", err)
	}

	updated, err := f.admin.Promote(ctx, f.adminID, f.empID, "hr", true)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if updated.Role != "hr" || !updated.IsSuperuser {
		t.Fatalf("updated = %+v", updated)
	}
	stored, _ := f.users.GetByID(ctx, f.empID)
	if stored.Role != "hr" || !stored.IsSuperuser {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestDeletePolicy(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	if _, err := f.admin.Delete(ctx, f.empID, f.hrID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employee delete: err = %v, want ErrForbidden", err)
	}
	if _, err := f.admin.Delete(ctx, f.adminID, f.adminID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self delete: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.admin.Delete(ctx, f.adminID, f.hrID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("delete hr: err = %v, want ErrInvalidInput", err)
	}
	second := f.users.put(model.User{Email: "admin2@x.com", Role: "admin", IsActive: true})
	if _, err := f.admin.Delete(ctx, f.adminID, second.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("delete admin: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.admin.Delete(ctx, f.adminID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete unknown: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCascadesTokenRows(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	_ = f.tokens.Insert(ctx, f.empID, "acc1", "ref1")
	_ = f.tokens.Insert(ctx, f.empID, "acc2", "ref2")
	_ = f.tokens.RevokeByAccess(ctx, "acc1") // revoked history is removed too

	deleted, err := f.admin.Delete(ctx, f.adminID, f.empID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Email != "emp@x.com" {
		t.Fatalf("deleted = %+v", deleted)
	}
	if n := f.tokens.countForUser(f.empID); n != 0 {
		t.Fatalf("%d token rows survive user deletion", n)
	}
	if _, err := f.users.GetByID(ctx, f.empID); err == nil {
		t.Fatal("user row survives deletion")
	}
}

func TestSuperuserCanManage(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	if _, err := f.admin.Promote(ctx, f.superID, f.empID, "hr", false); err != nil {
		t.Fatalf("superuser promote: %v", err)
	}
	target := f.users.put(model.User{Email: "temp@x.com", Role: "employee", IsActive: true})
	if _, err := f.admin.Delete(ctx, f.superID, target.ID); err != nil {
		t.Fatalf("superuser delete: %v", err)
	}
}
