package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"knowledge/internal/adapter/chunker"
	"knowledge/internal/adapter/fs"
	"knowledge/internal/domain"
	"knowledge/internal/kb"
	"knowledge/internal/usecase"
)

var ingestBuiltin bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Chunk, embed and index documents",
	Long: `Ingest documents into the corpus: split them into topically coherent
passages, embed the passages, and build the vector and keyword indexes.
The snapshot is stored in .knowledge/index.db under the root directory.

Examples:
  knowledge ingest ./docs     # Index documents under ./docs
  knowledge ingest --builtin  # Index the built-in support corpus`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestBuiltin, "builtin", false, "ingest the built-in support corpus instead of files")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var docs []domain.SourceDocument
	if ingestBuiltin {
		docs = kb.Documents()
		fmt.Printf("Loading built-in corpus (%d documents)...\n", len(docs))
	} else {
		path := GetRootDir()
		if len(args) > 0 {
			var err error
			path, err = filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("path does not exist: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path is not a directory: %s", path)
		}

		fmt.Printf("Scanning %s...\n", path)
		docs, err = collectDocuments(path)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no documents matched under %s", path)
		}
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	snapshots, err := openSnapshots(GetRootDir())
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer snapshots.Close()

	chk := chunker.NewSemanticChunker(embedder, chunker.Options{
		SimilarityThreshold: cfg.Chunking.SimilarityThreshold,
		MinChunkSize:        cfg.Chunking.MinChunkSize,
		MaxChunkSize:        cfg.Chunking.MaxChunkSize,
		BufferSize:          cfg.Chunking.BufferSize,
		OverlapSentences:    cfg.Chunking.OverlapSentences,
	}, logger)

	ingestUC := usecase.NewIngestUseCase(chk, embedder, newCorpus(cfg), snapshots, logger)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	progress := func(done, total int, source string) {
		barMu.Lock()
		defer barMu.Unlock()
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	result, err := ingestUC.Ingest(ctx, docs, progress)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Documents indexed: %d\n", result.DocumentsIngested)
	fmt.Printf("  Documents failed:  %d\n", result.DocumentsFailed)
	fmt.Printf("  Passages created:  %d\n", result.PassagesCreated)

	if len(result.Failures) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, f := range result.Failures {
			fmt.Printf("  - %s\n", f)
		}
	}

	fmt.Printf("\nIndex stored at: %s\n", configIndexPath())
	return nil
}

// collectDocuments walks the directory with the configured include and
// exclude patterns and reads each matching file as one source document.
func collectDocuments(path string) ([]domain.SourceDocument, error) {
	walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
	files, err := walker.Walk(path)
	if err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}

	docs := make([]domain.SourceDocument, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
		}
		docs = append(docs, domain.SourceDocument{
			Title:    documentTitle(f.RelPath),
			Text:     string(data),
			Source:   f.RelPath,
			Category: documentCategory(f.RelPath),
		})
	}
	return docs, nil
}

// documentTitle derives a human-readable title from the file name.
func documentTitle(relPath string) string {
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// documentCategory uses the top-level directory as the category.
func documentCategory(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(dir), "/")
	return parts[0]
}
