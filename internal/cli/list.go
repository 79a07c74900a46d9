package cli

import (
	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/model"
)

func newListCmd() *cobra.Command {
	var ns string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog models",
		Long:  "List all registered models, optionally filtered by namespace.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(ns)
		},
	}

	cmd.Flags().StringVar(&ns, "namespace", "", "namespace to filter by")

	return cmd
}

func runList(ns string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	models, err := model.NewStore(database).List(ns)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(models)
	}

	return printModelTable(models)
}
