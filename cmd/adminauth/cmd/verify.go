package cmd

import (
	"github.com/spf13/cobra"
)

var verifyKeep bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the stored admin token against the server",
	Long: `verify sends the stored token to the verification endpoint and prints
the principal it resolves to. A token the server rejects, or one that has
already expired, is cleared from the local store unless --keep is given.
Transport failures never clear the token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		principal, err := rt.auth.VerifyStored(cmd.Context(), !verifyKeep)
		if err != nil {
			return err
		}

		cmd.Printf("token verifies: %s (id=%d, admin=%t)\n",
			principal.Username, principal.ID, principal.IsAdmin)
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyKeep, "keep", false,
		"keep the stored token even when the server rejects it")

	rootCmd.AddCommand(verifyCmd)
}
