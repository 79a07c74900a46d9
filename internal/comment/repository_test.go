package comment

import (
	"path/filepath"
	"testing"

	"github.com/modelhub-io/modelhub/internal/db"
)

func repoSetup(t *testing.T) *Repository {
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
	return NewRepository(database)
}

func TestSaveAndFindOne(t *testing.T) {
	repo := repoSetup(t)

	c, err := repo.Save(&Comment{
		ModelID: "com.example:Light:1.0.0",
		Author:  "alice",
		Content: "Nice model",
		Date:    "2026-08-29 10:00:00",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected non-zero ID")
	}

	got, err := repo.FindOne(c.ID)
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if got == nil {
		t.Fatal("comment not found")
	}
	if got.Author != "alice" || got.Content != "Nice model" || got.ModelID != "com.example:Light:1.0.0" {
		t.Errorf("unexpected comment: %+v", got)
	}
	if got.Date != "2026-08-29 10:00:00" {
		t.Errorf("date = %q", got.Date)
	}
}

func TestSaveEmptyContent(t *testing.T) {
	repo := repoSetup(t)

	_, err := repo.Save(&Comment{ModelID: "com.example:Light:1.0.0", Author: "alice"})
	if err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestFindOneAbsent(t *testing.T) {
	repo := repoSetup(t)

	got, err := repo.FindOne(9999)
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestFindByModelID(t *testing.T) {
	repo := repoSetup(t)

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		if _, err := repo.Save(&Comment{
			ModelID: "com.example:Light:1.0.0", Author: "alice", Content: text, Date: "2026-08-29 10:00:00",
		}); err != nil {
			t.Fatalf("save %q: %v", text, err)
		}
	}
	if _, err := repo.Save(&Comment{
		ModelID: "com.example:Switch:1.0.0", Author: "alice", Content: "other model", Date: "2026-08-29 10:00:00",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	comments, err := repo.FindByModelID("com.example:Light:1.0.0")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}

	// Oldest first
	if comments[0].Content != "first" {
		t.Errorf("first comment = %q, want %q", comments[0].Content, "first")
	}
	if comments[2].Content != "third" {
		t.Errorf("last comment = %q, want %q", comments[2].Content, "third")
	}
}

func TestFindByAuthor(t *testing.T) {
	repo := repoSetup(t)

	saves := []struct{ author, content string }{
		{"alice", "one"},
		{"bob", "two"},
		{"alice", "three"},
	}
	for _, s := range saves {
		if _, err := repo.Save(&Comment{
			ModelID: "com.example:Light:1.0.0", Author: s.author, Content: s.content, Date: "2026-08-29 10:00:00",
		}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	comments, err := repo.FindByAuthor("alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	for _, c := range comments {
		if c.Author != "alice" {
			t.Errorf("unexpected author %q", c.Author)
		}
	}
}

func TestFindByModelIDEmpty(t *testing.T) {
	repo := repoSetup(t)

	comments, err := repo.FindByModelID("com.example:Missing:1.0.0")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("got %d comments, want 0", len(comments))
	}
}

func TestRepositoryDelete(t *testing.T) {
	repo := repoSetup(t)

	c, err := repo.Save(&Comment{
		ModelID: "com.example:Light:1.0.0", Author: "alice", Content: "to be deleted", Date: "2026-08-29 10:00:00",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Delete(c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.FindOne(c.ID)
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if got != nil {
		t.Error("comment should be gone")
	}

	if err := repo.Delete(c.ID); err == nil {
		t.Error("expected error deleting missing comment")
	}
}
