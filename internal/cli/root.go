package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"legalrag/config"
	"legalrag/internal/logging"
	"legalrag/internal/usecase"
)

var (
	cfgFile string
	dataDir string
	cfg     *config.Config
	log     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "legalrag",
	Short: "Legal risk retrieval engine for app-launch triage",
	Long: `legalrag ingests statutes, court decisions and app store policies into
a local hybrid retrieval index, and answers legal-risk queries with ranked,
source-attributed excerpts.

Example usage:
  legalrag ingest --type statute ./corpus/statutes
  legalrag search -q "in-app purchase refunds for minors"
  legalrag stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if dataDir != "" {
			cfg.Store.DataDir = dataDir
		}
		log = logging.New(cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./legalrag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "data directory (default from config)")
}

func openEngine() (*usecase.Engine, error) {
	eng, err := usecase.NewEngine(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return eng, nil
}
