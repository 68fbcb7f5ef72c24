package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scoperag/internal/core/services"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse a corpus file without embedding it",
	Long: `Parses a corpus file and reports how many Q&A entries it holds and which
blocks were skipped. No embedding provider is contacted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(checkCmd)
}

// checkReport is the JSON shape of a check.
type checkReport struct {
	File         string `json:"file"`
	Entries      int    `json:"entries"`
	Blocks       int    `json:"blocks"`
	Skipped      int    `json:"skipped"`
	SkippedLines []int  `json:"skipped_lines"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}

	corpus, parsed := services.ParseCorpus(string(data))
	report := checkReport{
		File:         args[0],
		Entries:      corpus.Len(),
		Blocks:       parsed.Blocks,
		Skipped:      parsed.Skipped,
		SkippedLines: parsed.SkippedLines,
	}
	if report.SkippedLines == nil {
		report.SkippedLines = []int{}
	}

	if checkJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Printf("%s: %d entries from %d blocks\n", report.File, report.Entries, report.Blocks)
	if report.Skipped > 0 {
		cmd.Printf("Skipped %d blocks starting at lines:", report.Skipped)
		for _, line := range report.SkippedLines {
			cmd.Printf(" %d", line)
		}
		cmd.Println()
	}
	if report.Entries == 0 {
		cmd.Println("Warning: no entries; loading this file would fail.")
	}
	return nil
}
