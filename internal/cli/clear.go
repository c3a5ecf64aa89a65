package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"legalrag/internal/domain"
)

var clearCollections []string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove ingested data",
	Long: `Remove every chunk from the named collections, or from all of them
when no collection is given. The full-text index and result cache are
purged along with the store.

Examples:
  legalrag clear
  legalrag clear --collections statutes,case_law`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().StringSliceVar(&clearCollections, "collections", nil, "collections to clear (default all)")
}

func runClear(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Clear(clearCollections); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cleared := clearCollections
	if len(cleared) == 0 {
		cleared = domain.AllCollections()
	}
	fmt.Printf("Cleared: %s\n", strings.Join(cleared, ", "))
	return nil
}
