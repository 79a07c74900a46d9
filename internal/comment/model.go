// Package comment provides the comment domain model, data access, and the
// authorization and notification logic around creating and deleting comments.
package comment

import "time"

// dateLayout is the stored form of a comment's creation date.
const dateLayout = "2006-01-02 15:04:05"

// Comment represents a user comment on a versioned model.
type Comment struct {
	ID      int64  `json:"id"`
	ModelID string `json:"model_id"`
	Author  string `json:"author"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// formatDate renders a timestamp in the stored date form.
func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
