package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	config "github.com/troycsc/desk-services/configs"
)

const SERVICE_NAME = "cardctl"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cardctl",
	Short: "Desk admin tool for package audits and guest cards",
	Long: `cardctl runs the desk's offline jobs.

Available subcommands:
  normalize - audit a mailroom export and write the _processed.xlsx
  swipe     - extract a card number from raw reader input
  migrate   - upgrade the card database schema and rebuild loan history
  user      - manage desk staff accounts`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		log.SetLevel(log.WarnLevel)
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(normalizeCmd, swipeCmd, migrateCmd, userCmd)
}

func main() {
	log.SetLevel(log.WarnLevel)
	config.LoadEnv(SERVICE_NAME)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
