package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var visibility string
	var description string

	cmd := &cobra.Command{
		Use:   "add <model-id>",
		Short: "Register a model",
		Long:  "Register a versioned model (namespace:name:version) in the catalog. Requires a model creator role on the namespace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args[0], visibility, description)
		},
	}

	cmd.Flags().StringVar(&visibility, "visibility", "Private", "model visibility (Public|Private)")
	cmd.Flags().StringVar(&description, "description", "", "short model description")

	return cmd
}

func runAdd(modelID, visibility, description string) error {
	c := newAPIClient()

	info, err := c.AddModel(modelID, visibility, description)
	if err != nil {
		return fmt.Errorf("adding model: %w", err)
	}

	if isJSON() {
		return printJSON(info)
	}

	fmt.Println("Model registered.")
	printModelSummary(info)
	return nil
}
