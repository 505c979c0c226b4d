package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/outliner/internal/config"
	"github.com/dgallion1/outliner/internal/pipeline"
)

func newIndexCmd(log *slog.Logger) *cobra.Command {
	var (
		inDir   string
		outBase string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Extract structure from a document directory and build the indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			emb, err := newEmbedder(cfg)
			if err != nil {
				return err
			}

			p := pipeline.New(cfg, emb, log)
			stats, err := p.IndexDirectory(cmd.Context(), inDir, outBase)
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d documents: %d heading nodes, %d chunks\n",
				stats.Documents, stats.Nodes, stats.Chunks)
			return nil
		},
	}

	cmd.Flags().StringVar(&inDir, "in", "", "directory of source documents")
	cmd.Flags().StringVar(&outBase, "out", "structure", "base path for the index files")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
