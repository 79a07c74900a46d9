package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a model does not exist in a workspace.
var ErrNotFound = errors.New("model not found")

// Repository reads models from a single workspace partition.
type Repository struct {
	db          *sql.DB
	workspaceID string
}

// Factory hands out per-workspace repositories over a shared database.
type Factory struct {
	db *sql.DB
}

// NewFactory creates a repository factory.
func NewFactory(db *sql.DB) *Factory {
	return &Factory{db: db}
}

// RepositoryFor returns the repository for a workspace.
func (f *Factory) RepositoryFor(workspaceID string) *Repository {
	return &Repository{db: f.db, workspaceID: workspaceID}
}

// Exists reports whether a model exists in this workspace.
func (r *Repository) Exists(id ID) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM models WHERE model_id = ? AND workspace_id = ?",
		id.String(), r.workspaceID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking model %s: %w", id, err)
	}
	return count > 0, nil
}

// GetByID returns the metadata for a model in this workspace.
func (r *Repository) GetByID(id ID) (*Info, error) {
	var m Info
	var modelID string
	err := r.db.QueryRow(
		"SELECT model_id, author, visibility, description FROM models WHERE model_id = ? AND workspace_id = ?",
		id.String(), r.workspaceID,
	).Scan(&modelID, &m.Author, &m.Visibility, &m.Description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("model %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying model %s: %w", id, err)
	}

	parsed, err := ParseID(modelID)
	if err != nil {
		return nil, fmt.Errorf("stored model ID: %w", err)
	}
	m.ID = parsed
	return &m, nil
}

// Store manages the catalog itself: creating and listing models.
// Reads during comment authorization go through Repository instead.
type Store struct {
	db *sql.DB
}

// NewStore creates a catalog store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create registers a model under its namespace's workspace.
func (s *Store) Create(id ID, author, visibility, description, workspaceID string) (*Info, error) {
	if author == "" {
		return nil, fmt.Errorf("author is required")
	}
	if !ValidVisibility(visibility) {
		return nil, fmt.Errorf("invalid visibility %q", visibility)
	}

	_, err := s.db.Exec(
		"INSERT INTO models (model_id, namespace, name, version, author, visibility, description, workspace_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id.String(), id.Namespace, id.Name, id.Version, author, NormalizeVisibility(visibility), description, workspaceID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("model already exists: %s", id)
		}
		return nil, fmt.Errorf("inserting model: %w", err)
	}

	return &Info{ID: id, Author: author, Visibility: NormalizeVisibility(visibility), Description: description}, nil
}

// List returns all models, optionally filtered by namespace.
func (s *Store) List(namespace string) ([]*Info, error) {
	query := "SELECT model_id, author, visibility, description FROM models ORDER BY model_id"
	args := []interface{}{}
	if namespace != "" {
		query = "SELECT model_id, author, visibility, description FROM models WHERE namespace = ? ORDER BY model_id"
		args = append(args, namespace)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var models []*Info
	for rows.Next() {
		var m Info
		var modelID string
		if err := rows.Scan(&modelID, &m.Author, &m.Visibility, &m.Description); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		parsed, err := ParseID(modelID)
		if err != nil {
			return nil, fmt.Errorf("stored model ID: %w", err)
		}
		m.ID = parsed
		models = append(models, &m)
	}

	return models, rows.Err()
}

// Delete removes a model from the catalog.
func (s *Store) Delete(id ID) error {
	result, err := s.db.Exec("DELETE FROM models WHERE model_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("deleting model: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("model %s: %w", id, ErrNotFound)
	}

	return nil
}
