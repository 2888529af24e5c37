package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"knowledge/internal/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive retrieval session with conversation memory",
	Long: `Start an interactive session. Each query runs through the full
retrieval pipeline, and completed exchanges feed the session memory so
follow-up questions see recent conversation context.

Commands inside the session:
  /memory   show the rendered conversation context
  /clear    clear session memory
  /stats    show corpus statistics
  /quit     exit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	stats := retrieveUC.Stats()
	fmt.Printf("Corpus ready: %d passages, %d terms. Type /quit to exit.\n\n", stats.Passages, stats.Terms)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			return nil
		case "/clear":
			retrieveUC.Memory().Clear()
			fmt.Println("Session memory cleared.")
			continue
		case "/memory":
			rendered := retrieveUC.Memory().WindowContext()
			if rendered == "" {
				fmt.Println("No conversation history yet.")
			} else {
				fmt.Println(rendered)
			}
			continue
		case "/stats":
			printStats(retrieveUC.Stats(), retrieveUC.Memory().Statistics())
			continue
		}

		result, err := retrieveUC.Retrieve(ctx, line)
		if err != nil {
			fmt.Printf("retrieval failed: %v\n", err)
			continue
		}
		if len(result.Passages) == 0 {
			fmt.Println("No relevant passages found.")
			retrieveUC.RecordTurn(line, "No relevant passages found.", nil, domain.ActionNone)
			continue
		}

		references := make([]string, 0, len(result.Passages))
		for i, rp := range result.Passages {
			fmt.Printf("[%d] %s (score: %.3f)\n", i+1, rp.SourceReference(), rp.Score)
			references = append(references, rp.SourceReference())
		}
		top := result.Passages[0]
		fmt.Printf("\n%s\n\n", top.Passage.Text)

		retrieveUC.RecordTurn(line, top.Passage.Text, references, domain.ActionNone)
	}
}
