package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/model"
)

func newCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `comment <model-id> "text"`,
		Short: "Add a comment to a model",
		Long:  "Add a text comment to a model. The model must be public or you must hold a role on its namespace.",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runComment,
	}
}

func runComment(cmd *cobra.Command, args []string) error {
	if _, err := model.ParseID(args[0]); err != nil {
		return err
	}

	content := strings.Join(args[1:], " ")
	if content == "" {
		return fmt.Errorf("comment text is required")
	}

	c := newAPIClient()

	comm, err := c.AddComment(args[0], content)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(comm)
	}

	printCommentSingle(comm)
	return nil
}
