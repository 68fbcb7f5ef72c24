package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

var (
	queryK      int
	queryJSON   bool
	queryCorpus string
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the corpus",
	Long: `Loads the corpus, embeds the question and prints the closest Q&A pairs.
Scores run from 0 to 1; 1 means the question is identical to an entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryK, "k", "k", 0, "number of results (default from settings)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().StringVarP(&queryCorpus, "corpus", "c", "", "corpus file (default from settings)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	rt, _, err := startRuntime(cmd.Context(), queryCorpus)
	if err != nil {
		return err
	}
	defer rt.Close()

	results, err := rt.retrieval.Query(cmd.Context(), args[0], queryK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, results)
	}
	outputQueryTable(cmd, results)
	return nil
}

// queryResultJSON is the JSON shape of one result.
type queryResultJSON struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

func outputQueryJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	out := make([]queryResultJSON, len(results))
	for i, r := range results {
		out[i] = queryResultJSON{
			Question: r.Entry.Question,
			Answer:   r.Entry.Answer,
			Score:    r.Score,
			Position: r.Position,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryTable(cmd *cobra.Command, results []domain.QueryResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	question := color.New(color.FgCyan, color.Bold).SprintFunc()
	answer := color.New(color.FgWhite).SprintFunc()

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s %s\n", i+1, question(r.Entry.Question), scoreColor(r.Score).Sprintf("(%.3f)", r.Score))
		cmd.Printf("      %s\n", answer(strings.ReplaceAll(r.Entry.Answer, "\n", " ")))
		cmd.Println()
	}
}

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.6:
		return color.New(color.FgGreen)
	case score >= 0.4:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgHiBlack)
	}
}
