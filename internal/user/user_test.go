package user

import (
	"path/filepath"
	"testing"

	"github.com/modelhub-io/modelhub/internal/db"
)

func testSetup(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewStore(database)
}

func TestAddAndLookup(t *testing.T) {
	store := testSetup(t)

	u, err := store.Add("alice", "Alice@Example.com", false)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.Sysadmin {
		t.Error("sysadmin should be false")
	}

	got, err := store.Lookup("alice")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got == nil || got.Username != "alice" {
		t.Fatalf("lookup = %+v", got)
	}
}

func TestLookupAbsent(t *testing.T) {
	store := testSetup(t)

	u, err := store.Lookup("nobody")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for absent user, got %+v", u)
	}
}

func TestAddSysadmin(t *testing.T) {
	store := testSetup(t)

	if _, err := store.Add("root", "root@example.com", true); err != nil {
		t.Fatalf("add: %v", err)
	}

	u, err := store.Lookup("root")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !u.Sysadmin {
		t.Error("expected sysadmin flag")
	}
}

func TestAddValidation(t *testing.T) {
	store := testSetup(t)

	if _, err := store.Add("", "x@example.com", false); err == nil {
		t.Error("expected error for empty username")
	}
	if _, err := store.Add("anonymous", "x@example.com", false); err == nil {
		t.Error("expected error for reserved username")
	}
	if _, err := store.Add("Anonymous", "x@example.com", false); err == nil {
		t.Error("expected error for reserved username (case-insensitive)")
	}
}

func TestAddDuplicate(t *testing.T) {
	store := testSetup(t)

	if _, err := store.Add("alice", "alice@example.com", false); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Add("alice", "other@example.com", false); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestListAndDelete(t *testing.T) {
	store := testSetup(t)

	for _, name := range []string{"carol", "alice", "bob"} {
		if _, err := store.Add(name, name+"@example.com", false); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	users, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("got %d users, want 3", len(users))
	}
	if users[0].Username != "alice" {
		t.Errorf("first user = %q, want alice", users[0].Username)
	}

	if err := store.Delete("bob"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete("bob"); err == nil {
		t.Error("expected error deleting missing user")
	}

	users, err = store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("got %d users after delete, want 2", len(users))
	}
}

func TestIsAnonymous(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"anonymous", true},
		{"Anonymous", true},
		{"ANONYMOUS", true},
		{"alice", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAnonymous(tt.name); got != tt.want {
			t.Errorf("IsAnonymous(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
