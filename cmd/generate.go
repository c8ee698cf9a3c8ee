package cmd

import (
	"context"

	"spawnc/internal/config"
	"spawnc/internal/nixeval"
	"spawnc/internal/output"
	"spawnc/internal/resolver"
	"spawnc/pkg/logger"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var generateOutputDir string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve all container definitions and write the artifact set",
	Long: `Run one resolution pass over the configured container definitions and
write the resulting launch-unit, network, tmpfiles and firewall artifacts
to the output directory. The pass is all-or-nothing: any validation or
inline-evaluation failure aborts before anything is written.`,
	Run: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutputDir, "output", "o", "", "output directory (overrides output.dir)")
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.GetLogger().SetLogLevel(cfg.Logging.Level)

	dir := cfg.Output.Dir
	if generateOutputDir != "" {
		dir = generateOutputDir
	}

	evaluator := nixeval.NewCLIEvaluator(cfg.Eval.NixBinary)
	r := resolver.New(evaluator, cfg.Eval.Overlays)

	artifacts, err := r.Resolve(context.Background(), cfg.Definitions())
	if err != nil {
		logger.Fatal("Resolution pass failed", "error", err)
	}

	writer := output.NewWriter(afero.NewOsFs(), dir)
	if err := writer.Write(artifacts); err != nil {
		logger.Fatal("Failed to write artifacts", "error", err)
	}
}
