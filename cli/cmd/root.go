package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sflowg/voltage/plugins/voltage"
)

type rootOptions struct {
	projectDir string
	envFile    string
	verbose    bool
	newClient  voltage.ClientFactory // nil selects the HTTP client
}

// NewRootCmd builds the voltage command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "voltage",
		Short: "Voltage - Lightning payments node",
		Long: `Voltage runs the Voltage API node: wallets, payments, lines of credit
and webhooks, one batch of input items at a time.

Credentials come from voltage.yaml in the project directory, falling back to
VOLTAGE_API_KEY, VOLTAGE_BASE_URL and VOLTAGE_TIMEOUT.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			return loadEnvFile(opts.envFile)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.projectDir, "project", "p", ".", "Project directory containing voltage.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load before resolving credentials")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd(opts), newSchemaCmd(), newServeCmd(opts))
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}
