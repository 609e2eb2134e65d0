package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time
	version = "dev"
	commit  = "none"

	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "formkit",
	Short: "Form submission client and validation server",
	Long: `formkit submits forms as JSON or multipart requests and serves a
playground endpoint that validates them.

  formkit serve                       # Start the playground server
  formkit submit POST <url> [flags]   # Submit a form`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "formkit %s (commit: %s)\n", version, commit)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to read configuration from")
	rootCmd.AddCommand(versionCmd)
}
