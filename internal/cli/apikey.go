package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/auth"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Administer API keys",
		Long:  "Create, list, and revoke API keys for a user. Operates directly on the registry database.",
	}

	cmd.AddCommand(
		newAPIKeyCreateCmd(),
		newAPIKeyListCmd(),
		newAPIKeyRevokeCmd(),
	)

	return cmd
}

func newAPIKeyCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <username> <name>",
		Short: "Create an API key",
		Long:  "Create an API key for a user. The key is printed once and never shown again.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			raw, key, err := auth.NewAPIKeyStore(database).Create(args[0], args[1])
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(map[string]interface{}{
					"id":  key.ID,
					"key": raw,
				})
			}
			fmt.Printf("API key #%d created for %s:\n\n  %s\n\nStore it now; it cannot be recovered.\n", key.ID, args[0], raw)
			return nil
		},
	}
}

func newAPIKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <username>",
		Short: "List a user's API keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			keys, err := auth.NewAPIKeyStore(database).ListByUser(args[0])
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(keys)
			}

			if len(keys) == 0 {
				fmt.Println("No API keys.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintln(w, "ID\tNAME\tPREFIX\tLAST USED"); err != nil {
				return fmt.Errorf("writing table header: %w", err)
			}
			for _, k := range keys {
				lastUsed := "never"
				if k.LastUsedAt != nil {
					lastUsed = k.LastUsedAt.Format("2006-01-02 15:04")
				}
				if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", k.ID, k.Name, k.KeyPrefix, lastUsed); err != nil {
					return fmt.Errorf("writing table row: %w", err)
				}
			}
			return w.Flush()
		},
	}
}

func newAPIKeyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <username> <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid key ID: %s", args[1])
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			if err := auth.NewAPIKeyStore(database).Delete(id, args[0]); err != nil {
				return err
			}

			fmt.Printf("API key #%d revoked.\n", id)
			return nil
		},
	}
}
