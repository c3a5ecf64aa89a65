package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"legalrag/internal/adapter/source"
	"legalrag/internal/domain"
)

var ingestType string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest documents into a collection",
	Long: `Ingest document files of one source type from a directory. Documents
failing the quality filter are skipped and counted.

Examples:
  legalrag ingest --type statute ./corpus/statutes
  legalrag ingest --type case_law ./corpus/decisions
  legalrag ingest --type store_policy ./corpus/policies`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "source type: statute, case_law or store_policy (required)")
	ingestCmd.MarkFlagRequired("type")
}

func runIngest(cmd *cobra.Command, args []string) error {
	sourceType := domain.SourceType(ingestType)
	if domain.CollectionFor(sourceType) == "" {
		return fmt.Errorf("unknown source type: %s", ingestType)
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	loader := source.NewLoader(cfg.Source.Includes, cfg.Source.Excludes)
	records, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Ingesting"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	report, err := eng.Ingest(sourceType, records, func(done, total int) {
		bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("Ingested %d documents (%d chunks), skipped %d.\n",
		report.Documents, report.Chunks, report.Skipped)
	return nil
}
