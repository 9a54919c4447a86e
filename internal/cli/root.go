// Package cli implements the redial command line interface.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "redial",
	Short: "Connect to a database with transparent retry",
	Long: `redial dials a database through a retry wrapper: transient failures are
retried with exponentially growing, jittered delays until the connection
succeeds or the time budget runs out. You see only success or the final
failure.

Verbosity (also via REDIAL_VERBOSE):
  -v     log the retry state when a dial starts failing
  -vv    additionally log every pause with the delay taken
  -vvv   additionally log remaining budget and the next undamped delay

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid retry policy or parameters
  11 - Database connection failed`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Best effort: a missing .env file is not an error.
		_ = godotenv.Load()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase retry logging detail (repeatable)")
}

// verbosityFromFlags maps the repeatable -v flag onto the engine's 0..4
// scale: one -v enables state logging (level 2), each further -v adds one.
func verbosityFromFlags(cmd *cobra.Command, envDefault int) int {
	count, err := cmd.Flags().GetCount("verbose")
	if err != nil || count == 0 {
		return envDefault
	}
	level := count + 1
	if level > 4 {
		level = 4
	}
	return level
}
