package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/core"
)

var diagnoseJSON bool

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Cross-check session and token authentication state",
	Long: `diagnose probes the session-status endpoint, the ambient-cookie user
endpoint, token verification and one protected resource, in that order,
and reports each outcome. The run is read-only: it never clears the
stored token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		report := rt.runner.Run(cmd.Context())

		if diagnoseJSON {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		}

		cmd.Printf("diagnostic report %s\n", report.ID)
		for i, step := range report.Steps {
			cmd.Printf("  %d. %-16s %-8s %s\n", i+1, step.Name, step.Outcome, step.Detail)
		}
		cmd.Printf("assessment: %s\n", core.Assess(report))
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().BoolVar(&diagnoseJSON, "json", false, "emit the report as JSON")

	rootCmd.AddCommand(diagnoseCmd)
}
