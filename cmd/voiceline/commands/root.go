// Package commands implements the voiceline CLI command tree.
package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "voiceline",
	Short: "Call lifecycle, enrichment, and voice biometrics server",
	Long: `voiceline - telephony call tracking with enrichment and voice biometrics.

The server ingests provider webhooks (inbound calls, status callbacks,
speech capture, recording notifications), keeps one record per call
session, enriches completed calls with transcript, summary, and
sentiment, and supports voice-biometric enrollment and verification.

Examples:
  # Run the server with a config file
  voiceline serve --config /etc/voiceline/config.yaml

  # Run with an ephemeral in-memory store for local development
  voiceline serve --memory --listen :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
