// Package users provides the user provisioning subcommands.
package users

import "github.com/spf13/cobra"

// UsersCmd is the parent command for user management.
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "User management commands",
}

func init() {
	UsersCmd.AddCommand(createCmd)
}
