package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/OFFIS-RIT/kgraph/internal/setup"
	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/loader"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [paths|urls|s3://bucket/key ...]",
		Short: "Build a knowledge graph from documents",
		Long: `Load every document, build one graph over all of them and write it
as JSON. Documents may be local files, http(s) URLs (article text is
extracted with readability), s3:// objects or .docx files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup.ConfigFromEnv()
			if err := applyGraphFlags(cmd, &cfg); err != nil {
				return err
			}

			services, err := setup.NewServices(cfg)
			if err != nil {
				return err
			}

			language, _ := cmd.Flags().GetString("lang")
			files, err := setup.NewFileResolver().Resolve(cmd.Context(), args, language)
			if err != nil {
				return err
			}
			docs, err := loader.LoadDocuments(cmd.Context(), files)
			if err != nil {
				return err
			}

			result, err := services.Graph.BuildGraph(cmd.Context(), docs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if summary, _ := cmd.Flags().GetBool("summary"); summary {
				top, _ := cmd.Flags().GetInt("top")
				printSummary(cmd.ErrOrStderr(), result, top)
			}
			return nil
		},
	}

	addGraphFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Write the graph to this file instead of stdout")
	cmd.Flags().Bool("summary", false, "Print a node and edge summary to stderr")
	cmd.Flags().Int("top", 10, "Nodes listed in the summary")
	cmd.Flags().String("lang", "", "Document language (detected when empty)")
	cmd.Flags().Bool("no-containment", false, "Disable containment merge of node ids")
	cmd.Flags().String("scoring", "", "Importance scoring: log or degree")
	cmd.Flags().String("corenlp-url", "", "CoreNLP server URL")

	return cmd
}

// addGraphFlags registers the chunking flags shared by build and sentences.
func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().Int("chunk-size", 0, "Sentences per chunk")
}

// applyGraphFlags overrides cfg with every flag set on the command line.
func applyGraphFlags(cmd *cobra.Command, cfg *setup.Config) error {
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		size, _ := flags.GetInt("chunk-size")
		if size <= 0 {
			return fmt.Errorf("--chunk-size must be positive")
		}
		cfg.MaxSentences = size
	}
	if flags.Lookup("scoring") != nil && flags.Changed("scoring") {
		cfg.Scoring, _ = flags.GetString("scoring")
	}
	if flags.Lookup("no-containment") != nil && flags.Changed("no-containment") {
		disabled, _ := flags.GetBool("no-containment")
		cfg.ContainmentMerge = !disabled
	}
	if flags.Lookup("corenlp-url") != nil && flags.Changed("corenlp-url") {
		cfg.CoreNLPURL, _ = flags.GetString("corenlp-url")
	}
	return nil
}

func printSummary(w io.Writer, result *common.GraphResult, top int) {
	bold := color.New(color.Bold)
	name := color.New(color.FgCyan).SprintFunc()
	kind := color.New(color.FgYellow).SprintFunc()
	label := color.New(color.FgGreen).SprintFunc()

	bold.Fprintf(w, "%d nodes, %d edges\n", len(result.Nodes), len(result.Edges))

	nodes := make([]common.Node, len(result.Nodes))
	copy(nodes, result.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Importance > nodes[j].Importance
	})
	if top >= 0 && len(nodes) > top {
		nodes = nodes[:top]
	}

	byID := make(map[string]string, len(result.Nodes))
	for _, n := range result.Nodes {
		byID[n.ID] = n.Name
	}

	for _, n := range nodes {
		fmt.Fprintf(w, "  %s [%s] freq=%d importance=%.3f\n", name(n.Name), kind(n.Type), n.Frequency, n.Importance)
		for _, e := range result.Edges {
			if e.Source != n.ID {
				continue
			}
			fmt.Fprintf(w, "    -%s-> %s\n", label(e.Relationship), byID[e.Target])
		}
	}
}
