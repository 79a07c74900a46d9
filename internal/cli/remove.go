package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/model"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <model-id>",
		Short: "Remove a model",
		Long:  "Remove a model from the catalog. Its comments remain addressable by author.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := model.ParseID(args[0])
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := model.NewStore(database).Delete(id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(map[string]interface{}{
			"id":      id.String(),
			"removed": true,
		})
	}

	fmt.Printf("Model %s removed.\n", id)
	return nil
}
