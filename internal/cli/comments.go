package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/comment"
	"github.com/modelhub-io/modelhub/internal/model"
)

func newCommentsCmd() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "comments [model-id]",
		Short: "List comments",
		Long:  "List all comments on a model, or all comments by an author with --author.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runComments(args[0])
			}
			if author == "" {
				return fmt.Errorf("a model ID or --author is required")
			}
			return runCommentsByAuthor(author)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "list comments by this author instead")

	return cmd
}

func runComments(modelID string) error {
	if _, err := model.ParseID(modelID); err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	comments, err := comment.NewRepository(database).FindByModelID(modelID)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(comments)
	}

	fmt.Printf("Comments on %s:\n\n", modelID)
	printCommentList(comments)
	return nil
}

func runCommentsByAuthor(author string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	comments, err := comment.NewRepository(database).FindByAuthor(author)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(comments)
	}

	fmt.Printf("Comments by %s:\n\n", author)
	printCommentList(comments)
	return nil
}
