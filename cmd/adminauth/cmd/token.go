package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/codec"
	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect or clear the stored admin token",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Decode the stored admin token without contacting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		cred, err := rt.creds.Load(cmd.Context())
		if err != nil {
			return err
		}
		if cred == nil {
			cmd.Println("no token stored")
			return nil
		}

		cmd.Printf("format:    %s\n", cred.Format)
		if cred.Format == core.FormatMalformed {
			cmd.Println("the stored string does not decode; use 'token clear' to discard it")
			return nil
		}

		now := time.Now()
		cmd.Printf("subject:   %d\n", cred.SubjectID)
		cmd.Printf("issued:    %s\n", cred.IssuedAt.Format(time.RFC3339))
		cmd.Printf("expires:   %s\n", cred.ExpiresAt.Format(time.RFC3339))
		if codec.IsExpired(*cred, now) {
			cmd.Println("status:    expired")
		} else {
			cmd.Printf("status:    valid, %s remaining\n", codec.Remaining(*cred, now).Truncate(time.Second))
		}
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the stored admin token",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.auth.ClearCredential(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("token cleared")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
