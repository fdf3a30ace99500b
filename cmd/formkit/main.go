// Command formkit serves file uploads through the formkit upload fields and
// storage backends.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/formkit/version"
)

type rootFlags struct {
	configFile string
	envFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "formkit",
		Short: "Upload fields with pluggable storage backends",
		Long: `formkit accepts multipart uploads, names them according to the
configured filename policy and stores them in a local directory, S3 or
Supabase Storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default: ./config.yaml, ./config/formkit.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file loaded before reading FORMKIT_* variables")

	rootCmd.AddCommand(
		serveCmd(flags),
		urlCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "formkit %s\n", version.Get())
		},
	}
}

// contextOf returns the command context, falling back to Background.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
