package model

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/modelhub-io/modelhub/internal/db"
)

// testSetup opens a fresh database with one namespace and its workspace.
func testSetup(t *testing.T) (*sql.DB, *Store, *Factory) {
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

	if _, err := database.Exec(
		"INSERT INTO namespaces (name, workspace_id) VALUES (?, ?)", "com.example", "ws-1",
	); err != nil {
		t.Fatalf("insert namespace: %v", err)
	}

	return database, NewStore(database), NewFactory(database)
}

func mustID(t *testing.T, s string) ID {
	t.Helper()
	id, err := ParseID(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return id
}

func TestCreateAndGetByID(t *testing.T) {
	_, store, factory := testSetup(t)

	id := mustID(t, "com.example:Light:1.0.0")
	created, err := store.Create(id, "bob", "public", "a light", "ws-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Visibility != VisibilityPublic {
		t.Errorf("visibility = %q, want normalized %q", created.Visibility, VisibilityPublic)
	}

	got, err := factory.RepositoryFor("ws-1").GetByID(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %v, want %v", got.ID, id)
	}
	if got.Author != "bob" {
		t.Errorf("author = %q, want %q", got.Author, "bob")
	}
	if !got.IsPublic() {
		t.Error("expected public model")
	}
}

func TestCreateDuplicate(t *testing.T) {
	_, store, _ := testSetup(t)

	id := mustID(t, "com.example:Light:1.0.0")
	if _, err := store.Create(id, "bob", "Private", "", "ws-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Create(id, "bob", "Private", "", "ws-1"); err == nil {
		t.Error("expected error for duplicate model")
	}
}

func TestCreateInvalidVisibility(t *testing.T) {
	_, store, _ := testSetup(t)

	id := mustID(t, "com.example:Light:1.0.0")
	if _, err := store.Create(id, "bob", "hidden", "", "ws-1"); err == nil {
		t.Error("expected error for unknown visibility")
	}
}

func TestExists(t *testing.T) {
	_, store, factory := testSetup(t)

	id := mustID(t, "com.example:Light:1.0.0")
	repo := factory.RepositoryFor("ws-1")

	exists, err := repo.Exists(id)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("model should not exist yet")
	}

	if _, err := store.Create(id, "bob", "Private", "", "ws-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err = repo.Exists(id)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("model should exist")
	}
}

func TestWorkspacePartitioning(t *testing.T) {
	_, store, factory := testSetup(t)

	id := mustID(t, "com.example:Light:1.0.0")
	if _, err := store.Create(id, "bob", "Private", "", "ws-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	// The model is invisible from another workspace's repository.
	other := factory.RepositoryFor("ws-2")
	exists, err := other.Exists(id)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("model should not be visible in ws-2")
	}

	if _, err := other.GetByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	_, _, factory := testSetup(t)

	_, err := factory.RepositoryFor("ws-1").GetByID(mustID(t, "com.example:Missing:1.0.0"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	database, store, _ := testSetup(t)

	if _, err := database.Exec(
		"INSERT INTO namespaces (name, workspace_id) VALUES (?, ?)", "org.other", "ws-2",
	); err != nil {
		t.Fatalf("insert namespace: %v", err)
	}

	ids := []string{"com.example:Light:1.0.0", "com.example:Switch:1.0.0", "org.other:Relay:2.0.0"}
	workspaces := []string{"ws-1", "ws-1", "ws-2"}
	for i, s := range ids {
		if _, err := store.Create(mustID(t, s), "bob", "Private", "", workspaces[i]); err != nil {
			t.Fatalf("create %s: %v", s, err)
		}
	}

	all, err := store.List("")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d models, want 3", len(all))
	}

	filtered, err := store.List("com.example")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("got %d models, want 2", len(filtered))
	}
	for _, m := range filtered {
		if m.ID.Namespace != "com.example" {
			t.Errorf("unexpected namespace %q", m.ID.Namespace)
		}
	}
}

func TestDelete(t *testing.T) {
	_, store, factory := testSetup(t)

	id := mustID(t, "com.example:Light:1.0.0")
	if _, err := store.Create(id, "bob", "Private", "", "ws-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	exists, err := factory.RepositoryFor("ws-1").Exists(id)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Error("model should be gone")
	}

	if err := store.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
