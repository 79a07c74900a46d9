package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newUncommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uncomment <comment-id>",
		Short: "Delete a comment",
		Long:  "Delete a comment you wrote, or any comment if you administer its namespace.",
		Args:  cobra.ExactArgs(1),
		RunE:  runUncomment,
	}
}

func runUncomment(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid comment ID: %s", args[0])
	}

	c := newAPIClient()

	resp, err := c.DeleteComment(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(resp)
	}

	if resp.Deleted {
		fmt.Printf("Comment #%d deleted.\n", id)
	} else {
		fmt.Printf("Comment #%d was not deleted: you are not its author or a namespace admin.\n", id)
	}
	return nil
}
