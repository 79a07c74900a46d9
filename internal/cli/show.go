package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/model"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <model-id>",
		Short: "Show model details",
		Long:  "Show full details for a model, including all comments.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	if _, err := model.ParseID(args[0]); err != nil {
		return err
	}

	c := newAPIClient()

	resp, err := c.GetModel(args[0])
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(resp)
	}

	printModelSummary(resp.Model)
	fmt.Println()
	if len(resp.Comments) > 0 {
		fmt.Printf("Comments (%d):\n", len(resp.Comments))
		printCommentList(resp.Comments)
	} else {
		fmt.Println("No comments.")
	}

	return nil
}
