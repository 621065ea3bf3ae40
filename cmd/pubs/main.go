// Package main provides the pubs CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matsen/pubs/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string

	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubs",
	Short: "Build a Markdown publication list from BibTeX files",
	Long: `pubs reads one or more BibTeX files (for example a DBLP export and a
hand-maintained file), merges them by citation key with later files winning,
and writes a Markdown listing grouped by year, newest first.

Sources and the output path come from pubs.yml, found by walking up from the
current directory. Without a config file the conventional layout is used:
bibliography/dblp.bib, bibliography/manual.bib -> publications_by_year.md.

All commands output JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; it only supplies PUBS_CONFIG / PUBS_ROOT.
		_ = godotenv.Load()

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to pubs.yml (default: search upward from the current directory)")
	rootCmd.Version = Version
}

// mustLoadConfig resolves the configuration or exits with ExitConfigError.
func mustLoadConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	cfg, err := config.Resolve(configPath, cwd)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	logger.Debug("resolved configuration",
		zap.String("root", cfg.Root),
		zap.Strings("input_sources", cfg.InputSources),
		zap.String("output_path", cfg.OutputPath),
	)
	return cfg
}
