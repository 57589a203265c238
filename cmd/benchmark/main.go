package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"clinicbot/config"
	"clinicbot/internal/adapter/embedding"
	"clinicbot/internal/adapter/retriever"
	"clinicbot/internal/adapter/store"
	"clinicbot/internal/adapter/vectorindex"
	"clinicbot/internal/domain"
)

func main() {
	dir := flag.String("dir", ".", "Directory holding clinicbot.yaml and .clinicbot/")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 10, "Number of results")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./docs -q \"query\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Corpus and embedder compatibility (model, dimension)")
		fmt.Println("  2. Semantic similarity (query vs results)")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	corpus, err := store.LoadCorpus(cfg.CorpusPath(*dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening corpus: %v\n", err)
		os.Exit(1)
	}

	ret, err := setupRetriever(corpus, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Semantic search not available: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SEMANTIC SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("Paragraphs indexed: %d\n", corpus.Len())
	fmt.Printf("Model: %s (%s)\n", corpus.Meta.Model, corpus.Meta.Provider)
	fmt.Printf("Dimension: %d, metric: %s\n", corpus.Meta.Dimension, corpus.Meta.Metric)
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	results, err := ret.Retrieve(*query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("Top %d semantic matches:\n\n", len(results))

	totalScore := 0.0
	for i, r := range results {
		preview := strings.ReplaceAll(truncate(r.Paragraph.Content, 150), "\n", " ")

		similarity := r.Score
		totalScore += similarity

		rating := "LOW"
		if similarity > 0.7 {
			rating = "HIGH"
		} else if similarity > 0.5 {
			rating = "GOOD"
		} else if similarity > 0.3 {
			rating = "OK"
		}

		fmt.Printf("%d. [%s %.3f] paragraph %d\n", i+1, rating, similarity, r.Paragraph.Position)
		fmt.Printf("   %s\n\n", preview)
	}

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", results[0].Score)

	if avgScore > 0.5 {
		fmt.Println("  Status: GOOD - semantic search working well")
	} else if avgScore > 0.3 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - may need better embeddings or re-indexing")
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func setupRetriever(corpus *domain.Corpus, cfg *config.Config) (*retriever.SemanticRetriever, error) {
	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedder init failed: %w", err)
	}

	warnings, err := store.CheckEmbedder(corpus.Meta, embedder)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	index, err := vectorindex.FromCorpus(corpus)
	if err != nil {
		return nil, fmt.Errorf("vector index failed: %w", err)
	}

	return retriever.NewSemanticRetriever(index, embedder, corpus)
}
