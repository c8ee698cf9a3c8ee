package cmd

import (
	"fmt"

	"spawnc/internal/config"
	"spawnc/internal/resolver"
	"spawnc/pkg/logger"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the container definitions without generating anything",
	Long: `Validate the configured container definitions: name uniqueness, source
specification, bind mounts and interface-name limits. Inline
configurations are not evaluated.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			logger.Fatal("Failed to load config", "error", err)
		}
		logger.GetLogger().SetLogLevel(cfg.Logging.Level)

		defs := cfg.Definitions()
		if err := resolver.Validate(defs); err != nil {
			logger.Fatal("Validation failed", "error", err)
		}
		fmt.Printf("OK: %d container definition(s) valid\n", len(defs))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
