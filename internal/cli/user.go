package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/user"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer registry users",
		Long:  "Create, list, and remove user accounts. Operates directly on the registry database.",
	}

	cmd.AddCommand(
		newUserAddCmd(),
		newUserListCmd(),
		newUserRemoveCmd(),
	)

	return cmd
}

func newUserAddCmd() *cobra.Command {
	var sysadmin bool

	cmd := &cobra.Command{
		Use:   "add <username> <email>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			u, err := user.NewStore(database).Add(args[0], args[1], sysadmin)
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(u)
			}
			if u.Sysadmin {
				fmt.Printf("Sysadmin %s created.\n", u.Username)
			} else {
				fmt.Printf("User %s created.\n", u.Username)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sysadmin, "sysadmin", false, "grant system administrator rights")

	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			users, err := user.NewStore(database).List()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(users)
			}
			return printUserTable(users)
		},
	}
}

func newUserRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <username>",
		Short: "Remove a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			if err := user.NewStore(database).Delete(args[0]); err != nil {
				return err
			}

			fmt.Printf("User %s removed.\n", args[0])
			return nil
		},
	}
}
