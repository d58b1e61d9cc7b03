package cmd

import (
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange username/password for a fresh admin token",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		principal, err := rt.auth.Login(cmd.Context(), loginUsername, loginPassword)
		if err != nil {
			return err
		}

		cmd.Printf("logged in as %s (id=%d, admin=%t)\n",
			principal.Username, principal.ID, principal.IsAdmin)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "admin username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "admin password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd)
}
