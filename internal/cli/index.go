package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"clinicbot/internal/adapter/analyzer"
	"clinicbot/internal/adapter/chunker"
	"clinicbot/internal/adapter/embedding"
	"clinicbot/internal/adapter/fs"
	"clinicbot/internal/adapter/store"
	"clinicbot/internal/adapter/vectorindex"
	"clinicbot/internal/usecase"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Build the corpus from clinic documents",
	Long: `Split the documents under path into paragraphs, embed every paragraph and
write the corpus file used by chat, ask and retrieve.
Markdown and text files are split on blank lines; JSON files hold an array
of paragraph strings. The corpus is stored in .clinicbot/corpus.db within
the target directory unless --corpus or corpus.path say otherwise.

Examples:
  clinicbot index .              # Index current directory
  clinicbot index ./docs --force # Rebuild even if nothing changed`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "rebuild even when sources and config are unchanged")
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Determine path to index
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

	cfg := GetConfig()
	if err := vectorindex.ValidateMetric(cfg.Corpus.Metric); err != nil {
		return err
	}

	dbPath := GetCorpusPath(path)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create corpus directory: %w", err)
	}

	st, err := store.NewCorpusStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus store: %w", err)
	}
	defer st.Close()

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		return err
	}

	tokenizer := analyzer.NewTokenizer(cfg.Embedding.Stemming)
	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes)
	chk := chunker.NewParagraphChunker(cfg.Corpus.ChunkTokens, tokenizer)

	indexUC := usecase.NewIndexUseCase(st, walker, fs.Reader{}, chk, embedder, usecase.IndexOptions{
		Provider:    cfg.Embedding.Provider,
		Metric:      cfg.Corpus.Metric,
		BatchSize:   cfg.Embedding.BatchSize,
		Concurrency: cfg.Embedding.Concurrency,
		ConfigHash:  store.ComputeConfigHash(cfg),
		Force:       indexForce,
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning %s...\n", path)
	fmt.Fprintf(out, "Embedding config: provider=%s, model=%s, dimension=%d\n",
		cfg.Embedding.Provider, embedder.ModelName(), embedder.Dimension())

	// Progress bar is created once the paragraph count is known
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(embedded, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		bar.Set(embedded)

		if embedded > 0 {
			elapsed := time.Since(startTime)
			rate := float64(embedded) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-embedded)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := indexUC.Index(cmd.Context(), path, progressCallback)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if result.Skipped {
		fmt.Fprintf(out, "\nCorpus is up to date (%d paragraphs from %d files). Use --force to rebuild.\n",
			result.Paragraphs, result.Files)
		fmt.Fprintf(out, "Corpus stored at: %s\n", dbPath)
		return nil
	}

	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Files read:     %d\n", result.Files)
	fmt.Fprintf(out, "  Paragraphs:     %d\n", result.Paragraphs)
	fmt.Fprintf(out, "  Dimension:      %d\n", result.Dimension)
	fmt.Fprintf(out, "  Metric:         %s\n", cfg.Corpus.Metric)
	fmt.Fprintf(out, "  Took:           %s\n", formatDuration(result.Duration))
	fmt.Fprintf(out, "\nCorpus stored at: %s\n", dbPath)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
