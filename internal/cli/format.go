package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/modelhub-io/modelhub/internal/comment"
	"github.com/modelhub-io/modelhub/internal/model"
	"github.com/modelhub-io/modelhub/internal/namespace"
	"github.com/modelhub-io/modelhub/internal/user"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printModelSummary prints a single model summary in text format.
func printModelSummary(m *model.Info) {
	fmt.Printf("Model %s\n", m.ID)
	fmt.Printf("  Namespace:   %s\n", m.ID.Namespace)
	fmt.Printf("  Version:     %s\n", m.ID.Version)
	fmt.Printf("  Author:      %s\n", m.Author)
	fmt.Printf("  Visibility:  %s\n", m.Visibility)
	if m.Description != "" {
		fmt.Printf("  Description: %s\n", m.Description)
	}
}

// printModelTable prints a list of models as a formatted table.
func printModelTable(models []*model.Info) error {
	if len(models) == 0 {
		fmt.Println("No models found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "MODEL\tAUTHOR\tVISIBILITY\tDESCRIPTION"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "-----\t------\t----------\t-----------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, m := range models {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.ID, m.Author, m.Visibility, truncate(m.Description, 40)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d models\n", len(models))
	return nil
}

// printNamespaceTable prints namespaces as a formatted table.
func printNamespaceTable(namespaces []*namespace.Namespace) error {
	if len(namespaces) == 0 {
		fmt.Println("No namespaces registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "NAMESPACE\tWORKSPACE\tCREATED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, ns := range namespaces {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
			ns.Name, ns.WorkspaceID, ns.CreatedAt.Format("2006-01-02")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return w.Flush()
}

// printGrantTable prints role grants as a formatted table.
func printGrantTable(grants []*namespace.Grant) error {
	if len(grants) == 0 {
		fmt.Println("No roles granted.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "USER\tROLE\tGRANTED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, g := range grants {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
			g.Username, g.Role, g.CreatedAt.Format("2006-01-02")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return w.Flush()
}

// printUserTable prints users as a formatted table.
func printUserTable(users []*user.User) error {
	if len(users) == 0 {
		fmt.Println("No users registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "USERNAME\tEMAIL\tSYSADMIN"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for _, u := range users {
		admin := ""
		if u.Sysadmin {
			admin = "yes"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Email, admin); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return w.Flush()
}

// printCommentList prints comments in text format.
func printCommentList(comments []*comment.Comment) {
	if len(comments) == 0 {
		fmt.Println("No comments.")
		return
	}

	for _, c := range comments {
		author := c.Author
		if author == "" {
			author = user.Anonymous
		}
		fmt.Printf("[%s] #%d (%s)\n  %s\n\n", c.Date, c.ID, author, c.Content)
	}
}

// printCommentSingle prints a single comment in text format.
func printCommentSingle(c *comment.Comment) {
	fmt.Printf("Comment #%d added.\n  %s\n", c.ID, c.Content)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
