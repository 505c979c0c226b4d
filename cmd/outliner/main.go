package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/outliner/internal/config"
	"github.com/dgallion1/outliner/internal/embedding"
)

func main() {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	root := &cobra.Command{
		Use:           "outliner",
		Short:         "Index document structure and suggest project outlines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newIndexCmd(log),
		newSuggestCmd(log),
		newServeCmd(log),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newEmbedder builds the configured embedding backend.
func newEmbedder(cfg config.Config) (embedding.Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.EmbeddingBackend == "openai" {
		return embedding.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}
	return embedding.NewLocalEmbedder(cfg.LocalEmbeddingDim), nil
}
