package namespace

import (
	"database/sql"
	"errors"
	"testing"
)

func rolesSetup(t *testing.T) (*sql.DB, *RoleStore) {
	t.Helper()
	database, svc := testSetup(t)
	if _, err := svc.Create("com.example", "ws-1"); err != nil {
		t.Fatalf("create namespace: %v", err)
	}
	return database, NewRoleStore(database)
}

func TestGrantAndHasRole(t *testing.T) {
	_, roles := rolesSetup(t)

	if err := roles.Grant("alice", "com.example", RoleModelCreator); err != nil {
		t.Fatalf("grant: %v", err)
	}

	has, err := roles.HasRole("alice", "com.example", RoleModelCreator)
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if !has {
		t.Error("expected role")
	}

	has, err = roles.HasRole("alice", "com.example", RoleNamespaceAdmin)
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if has {
		t.Error("unexpected namespace_admin role")
	}

	has, err = roles.HasRole("bob", "com.example", RoleModelCreator)
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if has {
		t.Error("bob should have no role")
	}
}

func TestGrantInvalidRole(t *testing.T) {
	_, roles := rolesSetup(t)

	if err := roles.Grant("alice", "com.example", "superuser"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestGrantUnknownNamespace(t *testing.T) {
	_, roles := rolesSetup(t)

	err := roles.Grant("alice", "org.missing", RoleModelViewer)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHasRoleUnknownNamespace(t *testing.T) {
	_, roles := rolesSetup(t)

	_, err := roles.HasRole("alice", "org.missing", RoleModelViewer)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = roles.HasAnyRole("alice", "org.missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHasAnyRole(t *testing.T) {
	_, roles := rolesSetup(t)

	has, err := roles.HasAnyRole("alice", "com.example")
	if err != nil {
		t.Fatalf("has any role: %v", err)
	}
	if has {
		t.Error("expected no roles yet")
	}

	if err := roles.Grant("alice", "com.example", RoleModelViewer); err != nil {
		t.Fatalf("grant: %v", err)
	}

	has, err = roles.HasAnyRole("alice", "com.example")
	if err != nil {
		t.Fatalf("has any role: %v", err)
	}
	if !has {
		t.Error("expected a role")
	}
}

func TestRevoke(t *testing.T) {
	_, roles := rolesSetup(t)

	if err := roles.Grant("alice", "com.example", RoleModelViewer); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := roles.Revoke("alice", "com.example", RoleModelViewer); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	has, err := roles.HasAnyRole("alice", "com.example")
	if err != nil {
		t.Fatalf("has any role: %v", err)
	}
	if has {
		t.Error("expected no roles after revoke")
	}

	if err := roles.Revoke("alice", "com.example", RoleModelViewer); err == nil {
		t.Error("expected error revoking missing grant")
	}
}

func TestIsSysadmin(t *testing.T) {
	database, roles := rolesSetup(t)

	is, err := roles.IsSysadmin("root")
	if err != nil {
		t.Fatalf("is sysadmin: %v", err)
	}
	if is {
		t.Error("unknown user should not be sysadmin")
	}

	if _, err := database.Exec(
		"INSERT INTO users (username, email, sysadmin) VALUES (?, ?, ?)",
		"root", "root@example.com", 1,
	); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := database.Exec(
		"INSERT INTO users (username, email, sysadmin) VALUES (?, ?, ?)",
		"alice", "alice@example.com", 0,
	); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	is, err = roles.IsSysadmin("root")
	if err != nil {
		t.Fatalf("is sysadmin: %v", err)
	}
	if !is {
		t.Error("root should be sysadmin")
	}

	is, err = roles.IsSysadmin("alice")
	if err != nil {
		t.Fatalf("is sysadmin: %v", err)
	}
	if is {
		t.Error("alice should not be sysadmin")
	}
}

func TestListByNamespace(t *testing.T) {
	_, roles := rolesSetup(t)

	grants := []struct{ user, role string }{
		{"alice", RoleModelViewer},
		{"alice", RoleNamespaceAdmin},
		{"bob", RoleModelCreator},
	}
	for _, g := range grants {
		if err := roles.Grant(g.user, "com.example", g.role); err != nil {
			t.Fatalf("grant %s/%s: %v", g.user, g.role, err)
		}
	}

	got, err := roles.ListByNamespace("com.example")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d grants, want 3", len(got))
	}
	// Ordered by username then role
	if got[0].Username != "alice" || got[0].Role != RoleModelViewer {
		t.Errorf("unexpected first grant: %+v", got[0])
	}
	if got[2].Username != "bob" {
		t.Errorf("unexpected last grant: %+v", got[2])
	}
}
