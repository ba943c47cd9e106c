package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "wordplay-service",
		Short:        "Word game authoring and play service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", "", "port to listen on (overrides config and PORT)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewTokenCmd(&configPath))
	return cmd
}
