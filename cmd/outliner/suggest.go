package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/outliner/internal/config"
	"github.com/dgallion1/outliner/internal/pipeline"
)

func newSuggestCmd(log *slog.Logger) *cobra.Command {
	var (
		indexBase    string
		requirements string
		topK         int
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a project outline for a requirements document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			emb, err := newEmbedder(cfg)
			if err != nil {
				return err
			}
			if topK <= 0 {
				topK = cfg.TopKSections
			}

			p := pipeline.New(cfg, emb, log)
			out, err := p.Suggest(cmd.Context(), indexBase, requirements, topK)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := out.Save(outPath); err != nil {
					return err
				}
				fmt.Printf("outline written to %s\n", outPath)
				return nil
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&indexBase, "index", "structure", "base path of the index files")
	cmd.Flags().StringVar(&requirements, "requirements", "", "requirements document to match against")
	cmd.Flags().IntVar(&topK, "top-k", 0, "number of top-level sections to suggest")
	cmd.Flags().StringVar(&outPath, "out", "", "write the outline JSON here instead of stdout")
	_ = cmd.MarkFlagRequired("requirements")
	return cmd
}
