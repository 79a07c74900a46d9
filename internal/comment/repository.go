package comment

import (
	"database/sql"
	"fmt"
)

// Repository provides CRUD operations for comments in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a comment and returns it with its assigned ID.
func (r *Repository) Save(c *Comment) (*Comment, error) {
	if c.Content == "" {
		return nil, fmt.Errorf("comment content is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO comments (model_id, author, content, date) VALUES (?, ?, ?, ?)",
		c.ModelID, c.Author, c.Content, c.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	saved := *c
	saved.ID = id
	return &saved, nil
}

// FindOne returns a comment by ID, or (nil, nil) if absent.
func (r *Repository) FindOne(id int64) (*Comment, error) {
	var c Comment
	err := r.db.QueryRow(
		"SELECT id, model_id, author, content, date FROM comments WHERE id = ?", id,
	).Scan(&c.ID, &c.ModelID, &c.Author, &c.Content, &c.Date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying comment: %w", err)
	}
	return &c, nil
}

// FindByModelID returns all comments on a model, oldest first.
func (r *Repository) FindByModelID(modelID string) ([]*Comment, error) {
	return r.query(
		"SELECT id, model_id, author, content, date FROM comments WHERE model_id = ? ORDER BY id",
		modelID,
	)
}

// FindByAuthor returns all comments by an author, oldest first.
func (r *Repository) FindByAuthor(author string) ([]*Comment, error) {
	return r.query(
		"SELECT id, model_id, author, content, date FROM comments WHERE author = ? ORDER BY id",
		author,
	)
}

func (r *Repository) query(q string, arg interface{}) ([]*Comment, error) {
	rows, err := r.db.Query(q, arg)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ModelID, &c.Author, &c.Content, &c.Date); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// Delete removes a comment by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("comment %d not found", id)
	}

	return nil
}
