package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/talentlens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long:  "Prints the configuration after defaults, environment expansion and overrides are applied.",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, used, err := config.Resolve(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	out, err := cfg.YAML()
	if err != nil {
		logger.Error("failed to render config", "error", err)
		os.Exit(1)
	}

	if used == "" {
		used = "built-in defaults"
	}
	fmt.Printf("# source: %s\n", used)
	if env := os.Getenv(config.EnvAPIURL); env != "" {
		fmt.Printf("# api.base_url overridden by %s\n", config.EnvAPIURL)
	}
	fmt.Print(string(out))
	return nil
}
