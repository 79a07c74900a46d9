// Package user provides registry user accounts.
package user

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Anonymous is the placeholder identity for unauthenticated actors.
// It can author comments but is never notified and never logs in.
const Anonymous = "anonymous"

// IsAnonymous reports whether username is the anonymous placeholder.
func IsAnonymous(username string) bool {
	return strings.EqualFold(username, Anonymous)
}

// User represents a registry account.
type User struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Sysadmin  bool      `json:"sysadmin"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages users in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a user store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add creates a new user account.
func (s *Store) Add(username, email string, sysadmin bool) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if IsAnonymous(username) {
		return nil, fmt.Errorf("username %q is reserved", username)
	}

	flag := 0
	if sysadmin {
		flag = 1
	}

	if _, err := s.db.Exec(
		"INSERT INTO users (username, email, sysadmin) VALUES (?, ?, ?)",
		username, email, flag,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("user already exists: %s", username)
		}
		return nil, fmt.Errorf("adding user: %w", err)
	}

	return s.mustGet(username)
}

// Lookup returns a user by username, or (nil, nil) if no such account
// exists. Notification fan-out relies on the nil result to skip silently.
func (s *Store) Lookup(username string) (*User, error) {
	var u User
	var sysadmin int
	err := s.db.QueryRow(
		"SELECT username, email, sysadmin, created_at FROM users WHERE username = ?", username,
	).Scan(&u.Username, &u.Email, &sysadmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.Sysadmin = sysadmin != 0
	return &u, nil
}

// mustGet returns a user that is known to exist.
func (s *Store) mustGet(username string) (*User, error) {
	u, err := s.Lookup(username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user not found: %s", username)
	}
	return u, nil
}

// List returns all users ordered by username.
func (s *Store) List() ([]*User, error) {
	rows, err := s.db.Query(
		"SELECT username, email, sysadmin, created_at FROM users ORDER BY username",
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var users []*User
	for rows.Next() {
		var u User
		var sysadmin int
		if err := rows.Scan(&u.Username, &u.Email, &sysadmin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Sysadmin = sysadmin != 0
		users = append(users, &u)
	}

	return users, rows.Err()
}

// Delete removes a user account.
func (s *Store) Delete(username string) error {
	result, err := s.db.Exec("DELETE FROM users WHERE username = ?", username)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found: %s", username)
	}

	return nil
}
