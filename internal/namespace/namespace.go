// Package namespace provides namespace registration, namespace-to-workspace
// resolution, and the per-namespace role store.
package namespace

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a namespace does not exist.
var ErrNotFound = errors.New("namespace not found")

// Namespace is a named ownership scope mapped to one storage workspace.
type Namespace struct {
	Name        string    `json:"name"`
	WorkspaceID string    `json:"workspace_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service manages namespaces in SQLite.
type Service struct {
	db *sql.DB
}

// NewService creates a namespace service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Create registers a namespace with its backing workspace.
func (s *Service) Create(name, workspaceID string) (*Namespace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("namespace name is required")
	}
	if strings.Contains(name, ":") {
		return nil, fmt.Errorf("namespace name must not contain ':'")
	}
	if workspaceID == "" {
		return nil, fmt.Errorf("workspace ID is required")
	}

	if _, err := s.db.Exec(
		"INSERT INTO namespaces (name, workspace_id) VALUES (?, ?)",
		name, workspaceID,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("namespace already exists: %s", name)
		}
		return nil, fmt.Errorf("inserting namespace: %w", err)
	}

	return &Namespace{Name: name, WorkspaceID: workspaceID}, nil
}

// ResolveWorkspace returns the workspace ID backing a namespace.
func (s *Service) ResolveWorkspace(name string) (string, error) {
	var workspaceID string
	err := s.db.QueryRow(
		"SELECT workspace_id FROM namespaces WHERE name = ?", name,
	).Scan(&workspaceID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("namespace %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolving namespace %s: %w", name, err)
	}
	return workspaceID, nil
}

// Exists reports whether a namespace is registered.
func (s *Service) Exists(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM namespaces WHERE name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking namespace %s: %w", name, err)
	}
	return count > 0, nil
}

// List returns all namespaces ordered by name.
func (s *Service) List() ([]*Namespace, error) {
	rows, err := s.db.Query(
		"SELECT name, workspace_id, created_at FROM namespaces ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var namespaces []*Namespace
	for rows.Next() {
		var n Namespace
		if err := rows.Scan(&n.Name, &n.WorkspaceID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning namespace: %w", err)
		}
		namespaces = append(namespaces, &n)
	}

	return namespaces, rows.Err()
}
