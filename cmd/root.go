package cmd

import (
	"fmt"
	"os"

	"spawnc/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// Build metadata, injected by the linker.
var (
	BuildVersion = "dev"
	BuildCommit  = "none"
	BuildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "spawnc",
	Short: "spawnc - Declarative container configuration compiler",
	Long: `spawnc compiles a declarative set of container definitions into the
artifacts a host needs to run isolated, network-attached containers:
launch-unit parameters, host- and container-side link configuration,
bind-mount lists, filesystem bootstrap rules and activation wiring.`,
}

// ExecuteCLI runs the command tree with build metadata from the linker.
func ExecuteCLI(version, commit, date string) {
	if version != "" {
		BuildVersion = version
	}
	if commit != "" {
		BuildCommit = commit
	}
	if date != "" {
		BuildDate = date
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./spawnc.toml)")
}

func initConfig() {
	logger.GetLogger().ConfigureFromEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config file in standard locations
		viper.SetConfigName("spawnc")
		viper.SetConfigType("toml")

		// Current directory (highest priority)
		viper.AddConfigPath(".")

		// User config directory
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(userConfigDir + "/spawnc")
		}

		// System-wide config directory
		viper.AddConfigPath("/etc/spawnc")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file", "file", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}
}
