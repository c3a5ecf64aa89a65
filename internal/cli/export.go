package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <collection>",
	Short: "Dump a collection's chunks as JSON",
	Long: `Write every stored chunk of one collection to stdout as JSON, for
inspection or backup.

Examples:
  legalrag export statutes > statutes.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	chunks, err := eng.Export(args[0])
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(chunks)
}
