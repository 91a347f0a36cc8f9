// Package main provides the research-agent CLI entry point.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/atihsingh22/research-agent/internal/answer"
	"github.com/atihsingh22/research-agent/internal/chunker"
	"github.com/atihsingh22/research-agent/internal/config"
	"github.com/atihsingh22/research-agent/internal/embedding"
	"github.com/atihsingh22/research-agent/internal/embedding/openai"
	"github.com/atihsingh22/research-agent/internal/embedding/termfreq"
	"github.com/atihsingh22/research-agent/internal/engine"
	"github.com/atihsingh22/research-agent/internal/library"
	"github.com/atihsingh22/research-agent/internal/snapshot"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "research-agent",
	Short: "Semantic retrieval over a library of research papers",
	Long: `research-agent indexes research papers for semantic search.

Papers are chunked, embedded, and stored in a local vector index that
persists across runs. Search works across all papers or a chosen
subset, and the chat command synthesizes answers with citations.`,
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default ./config.yaml, then ~/.config/research-agent/config.yaml)")
}

func mustLoadConfig() *config.AppConfig {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return cfg
}

// buildEngine assembles the retrieval engine from the config. The
// provider embedder is optional: with no API key (or disabled in
// config) the engine runs on the term-frequency fallback alone.
func buildEngine(cfg *config.AppConfig) *engine.Engine {
	ch, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		log.Fatalf("invalid chunker config: %v", err)
	}

	var primary embedding.Embedder
	if !cfg.Embedder.Disabled {
		client, err := openai.NewClient(openai.Config{
			APIKeyEnv:         cfg.Embedder.APIKeyEnv,
			Model:             cfg.Embedder.Model,
			Dimension:         cfg.Embedder.Dimension,
			Timeout:           time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
			RequestsPerSecond: cfg.Embedder.RequestsPerSecond,
			TruncateAt:        cfg.Embedder.TruncateAt,
		})
		if err != nil {
			log.Printf("embedding provider unavailable (%v), using local term-frequency embeddings", err)
		} else {
			primary = client
		}
	}
	emb := embedding.NewResilient(primary, termfreq.NewVectorizer(cfg.Embedder.Dimension))

	snaps, err := snapshot.NewStore(cfg.StoreDir)
	if err != nil {
		log.Fatalf("opening snapshot store: %v", err)
	}
	return engine.New(ch, emb, snaps)
}

func mustOpenLibrary(cfg *config.AppConfig) *library.Library {
	lib, err := library.Open(cfg.LibraryPath)
	if err != nil {
		log.Fatalf("opening paper catalog: %v", err)
	}
	return lib
}

// buildSynthesizer returns nil when no API key is configured; callers
// degrade to returning raw retrieval context.
func buildSynthesizer(cfg *config.AppConfig) *answer.Synthesizer {
	syn, err := answer.New(answer.Config{
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Chat.Model,
		MaxTokens: cfg.Chat.MaxTokens,
	})
	if err != nil {
		log.Printf("answer synthesis unavailable: %v", err)
		return nil
	}
	return syn
}
