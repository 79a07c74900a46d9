package namespace

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Role names grantable within a namespace.
const (
	RoleNamespaceAdmin = "namespace_admin"
	RoleModelCreator   = "model_creator"
	RoleModelViewer    = "model_viewer"
)

// ValidRole returns true if name is a grantable role.
func ValidRole(name string) bool {
	switch name {
	case RoleNamespaceAdmin, RoleModelCreator, RoleModelViewer:
		return true
	}
	return false
}

// RoleList returns the grantable role names, comma separated.
func RoleList() string {
	return strings.Join([]string{RoleNamespaceAdmin, RoleModelCreator, RoleModelViewer}, ", ")
}

// Grant is one role held by a user in a namespace.
type Grant struct {
	Username  string    `json:"username"`
	Namespace string    `json:"namespace"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleStore manages per-namespace role grants and the global sysadmin flag.
type RoleStore struct {
	db *sql.DB
}

// NewRoleStore creates a role store.
func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{db: db}
}

// requireNamespace returns ErrNotFound for an unregistered namespace.
// Role checks against unknown namespaces must fail loudly here; callers
// performing permission checks translate the error into a denial.
func (s *RoleStore) requireNamespace(name string) error {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM namespaces WHERE name = ?", name,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking namespace %s: %w", name, err)
	}
	if count == 0 {
		return fmt.Errorf("namespace %s: %w", name, ErrNotFound)
	}
	return nil
}

// Grant gives a user a role in a namespace.
func (s *RoleStore) Grant(username, ns, role string) error {
	if !ValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	if err := s.requireNamespace(ns); err != nil {
		return err
	}

	if _, err := s.db.Exec(
		"INSERT INTO user_roles (username, namespace, role) VALUES (?, ?, ?)",
		username, ns, role,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("user %s already has role %s in %s", username, role, ns)
		}
		return fmt.Errorf("granting role: %w", err)
	}

	return nil
}

// Revoke removes a role grant.
func (s *RoleStore) Revoke(username, ns, role string) error {
	result, err := s.db.Exec(
		"DELETE FROM user_roles WHERE username = ? AND namespace = ? AND role = ?",
		username, ns, role,
	)
	if err != nil {
		return fmt.Errorf("revoking role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no such grant: %s/%s/%s", username, ns, role)
	}

	return nil
}

// HasRole reports whether the user holds the named role in the namespace.
func (s *RoleStore) HasRole(username, ns, role string) (bool, error) {
	if err := s.requireNamespace(ns); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM user_roles WHERE username = ? AND namespace = ? AND role = ?",
		username, ns, role,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking role: %w", err)
	}
	return count > 0, nil
}

// HasAnyRole reports whether the user holds any role in the namespace.
func (s *RoleStore) HasAnyRole(username, ns string) (bool, error) {
	if err := s.requireNamespace(ns); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM user_roles WHERE username = ? AND namespace = ?",
		username, ns,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking roles: %w", err)
	}
	return count > 0, nil
}

// IsSysadmin reports whether the user holds the global sysadmin flag.
// Unknown users are simply not sysadmins.
func (s *RoleStore) IsSysadmin(username string) (bool, error) {
	var sysadmin int
	err := s.db.QueryRow(
		"SELECT sysadmin FROM users WHERE username = ?", username,
	).Scan(&sysadmin)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking sysadmin: %w", err)
	}
	return sysadmin != 0, nil
}

// ListByNamespace returns all grants in a namespace.
func (s *RoleStore) ListByNamespace(ns string) ([]*Grant, error) {
	if err := s.requireNamespace(ns); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT username, namespace, role, created_at FROM user_roles WHERE namespace = ? ORDER BY username, role",
		ns,
	)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var grants []*Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Username, &g.Namespace, &g.Role, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning grant: %w", err)
		}
		grants = append(grants, &g)
	}

	return grants, rows.Err()
}
