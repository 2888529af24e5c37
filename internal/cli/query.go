package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve ranked passages for a query",
	Long: `Run one query through the retrieval pipeline: hybrid search over the
vector and keyword indexes, score fusion, and reranking.

Examples:
  knowledge query -q "how do I get a refund"
  knowledge query -q "domain transfer auth code" -k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of passages (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if queryTopK > 0 {
		cfg.Retrieve.FinalK = queryTopK
	}

	corpus, snapshots, err := restoreCorpus(ctx, cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer snapshots.Close()

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	retrieveUC, err := newRetriever(cfg, corpus, embedder)
	if err != nil {
		return err
	}

	result, err := retrieveUC.Retrieve(ctx, queryText)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if queryJSON {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	if len(result.Passages) == 0 {
		fmt.Println("No passages found.")
		return nil
	}

	fmt.Printf("Found %d passages for: %s\n\n", len(result.Passages), queryText)
	for i, rp := range result.Passages {
		fmt.Printf("--- [%d] %s (score: %.3f", i+1, rp.SourceReference(), rp.Score)
		if rp.RerankScore != 0 {
			fmt.Printf(", fused: %.3f", rp.FusedScore)
		}
		fmt.Printf(") ---\n")
		text := rp.Passage.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}
