package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chunk counts per collection",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	stats, err := eng.Stats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	if statsJSON {
		output, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	total := 0
	for _, s := range stats {
		fmt.Printf("%-16s %d chunks\n", s.Name, s.Chunks)
		total += s.Chunks
	}
	fmt.Printf("%-16s %d chunks\n", "total", total)
	return nil
}
