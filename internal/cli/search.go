package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchQuery       string
	searchTopK        int
	searchThreshold   float64
	searchCollections []string
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the ingested corpus",
	Long: `Search every collection (or a subset) with hybrid lexical plus
full-text ranking.

Examples:
  legalrag search -q "in-app purchase refunds for minors"
  legalrag search -q "personal data consent" --collections statutes --top-k 10 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", -1, "minimum score (default from config)")
	searchCmd.Flags().StringSliceVar(&searchCollections, "collections", nil, "collections to search (default all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	results, err := eng.Search(searchQuery, searchTopK, searchThreshold, searchCollections)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), searchQuery)
	for i, r := range results {
		title := r.Metadata.Extra["title"]
		if title == "" {
			title = r.Metadata.SourceID
		}
		fmt.Printf("%d. [%.4f] %s (%s)\n", i+1, r.Score, title, r.Metadata.SourceType)
		fmt.Printf("   %s\n\n", excerpt(r.Text, 200))
	}
	return nil
}

func excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
