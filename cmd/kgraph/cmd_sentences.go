package main

import (
	"fmt"

	"github.com/OFFIS-RIT/kgraph/internal/setup"
	"github.com/OFFIS-RIT/kgraph/pkg/graph"

	"github.com/spf13/cobra"
)

func newSentencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sentences <path>",
		Short: "Print the chunks a document is split into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup.ConfigFromEnv()
			if err := applyGraphFlags(cmd, &cfg); err != nil {
				return err
			}

			files, err := setup.NewFileResolver().Resolve(cmd.Context(), args, "")
			if err != nil {
				return err
			}
			doc, err := files[0].Document(cmd.Context())
			if err != nil {
				return err
			}

			chunker := graph.Chunker{
				MaxSentences: cfg.MaxSentences,
				TokenEncoder: cfg.TokenEncoder,
				MaxTokens:    cfg.MaxTokens,
			}
			units, err := chunker.Split(doc.ID, doc.Text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, unit := range units {
				fmt.Fprintf(out, "# chunk %d (sentences %d-%d)\n", i+1, unit.Start+1, unit.End)
				for _, sentence := range graph.SplitSentences(unit.Text) {
					fmt.Fprintln(out, sentence)
				}
			}
			return nil
		},
	}

	addGraphFlags(cmd)
	return cmd
}
