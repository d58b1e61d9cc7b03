package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the server session and the stored admin token",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.auth.Logout(cmd.Context()); err != nil {
			// The local slot is already cleared; the operator should
			// still hear that the server call failed.
			return err
		}

		cmd.Println("logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
