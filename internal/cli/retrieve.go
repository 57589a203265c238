package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	retrieveText string
	retrieveTopK int
	retrieveJSON bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Show the corpus paragraphs nearest to a query",
	Long: `Search the corpus with semantic retrieval only, skipping keyword intents.
Results are printed closest first with their corpus position and score.

Examples:
  clinicbot retrieve -q "fat freezing"
  clinicbot retrieve -q "iv drips" --top-k 5 --json`,
	Args: cobra.NoArgs,
	RunE: runRetrieve,
}

func init() {
	rootCmd.AddCommand(retrieveCmd)
	retrieveCmd.Flags().StringVarP(&retrieveText, "query", "q", "", "search query (required)")
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "number of results (default from config)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output as JSON")
	retrieveCmd.MarkFlagRequired("query")
}

// RetrieveResult is a retrieval hit for CLI output.
type RetrieveResult struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Distance float64 `json:"distance"`
	Text     string  `json:"text"`
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	ret, _, err := loadRetriever(cfg, GetCorpusPath(GetRootDir()))
	if err != nil {
		return err
	}

	topK := cfg.Retrieve.TopK
	if retrieveTopK > 0 {
		topK = retrieveTopK
	}

	hits, err := ret.Retrieve(retrieveText, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results := make([]RetrieveResult, len(hits))
	for i, h := range hits {
		results[i] = RetrieveResult{
			Position: h.Paragraph.Position,
			Score:    h.Score,
			Distance: h.Distance,
			Text:     h.Paragraph.Content,
		}
	}

	out := cmd.OutOrStdout()
	if retrieveJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	fmt.Fprintf(out, "Found %d results for: %s\n\n", len(results), retrieveText)
	for i, r := range results {
		fmt.Fprintf(out, "--- [%d] paragraph %d (score: %.3f) ---\n", i+1, r.Position, r.Score)
		// Truncate long text for display
		text := r.Text
		if len([]rune(text)) > 500 {
			text = string([]rune(text)[:500]) + "..."
		}
		fmt.Fprintln(out, text)
		fmt.Fprintln(out)
	}
	return nil
}
