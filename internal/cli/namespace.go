package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelhub-io/modelhub/internal/namespace"
)

func newNamespaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "namespace",
		Short: "Administer namespaces and roles",
		Long:  "Create namespaces, list them, and grant or revoke user roles. Operates directly on the registry database.",
	}

	cmd.AddCommand(
		newNamespaceAddCmd(),
		newNamespaceListCmd(),
		newNamespaceGrantCmd(),
		newNamespaceRevokeCmd(),
		newNamespaceRolesCmd(),
	)

	return cmd
}

func newNamespaceAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <workspace-id>",
		Short: "Create a namespace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			ns, err := namespace.NewService(database).Create(args[0], args[1])
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(ns)
			}
			fmt.Printf("Namespace %s created (workspace %s).\n", ns.Name, ns.WorkspaceID)
			return nil
		},
	}
}

func newNamespaceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List namespaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			namespaces, err := namespace.NewService(database).List()
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(namespaces)
			}
			return printNamespaceTable(namespaces)
		},
	}
}

func newNamespaceGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <username> <namespace> <role>",
		Short: "Grant a role on a namespace",
		Long:  "Grant a user a role on a namespace. Roles: " + namespace.RoleList() + ".",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			if err := namespace.NewRoleStore(database).Grant(args[0], args[1], args[2]); err != nil {
				return err
			}

			if isJSON() {
				return printJSON(map[string]string{
					"username":  args[0],
					"namespace": args[1],
					"role":      args[2],
				})
			}
			fmt.Printf("Granted %s to %s on %s.\n", args[2], args[0], args[1])
			return nil
		},
	}
}

func newNamespaceRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <username> <namespace> <role>",
		Short: "Revoke a role on a namespace",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			if err := namespace.NewRoleStore(database).Revoke(args[0], args[1], args[2]); err != nil {
				return err
			}

			fmt.Printf("Revoked %s from %s on %s.\n", args[2], args[0], args[1])
			return nil
		},
	}
}

func newNamespaceRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles <namespace>",
		Short: "List role grants on a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(database)

			grants, err := namespace.NewRoleStore(database).ListByNamespace(args[0])
			if err != nil {
				return err
			}

			if isJSON() {
				return printJSON(grants)
			}
			return printGrantTable(grants)
		},
	}
}
