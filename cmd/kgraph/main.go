package main

import (
	"fmt"
	"os"

	"github.com/OFFIS-RIT/kgraph/internal/util"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"
	"github.com/OFFIS-RIT/kgraph/pkg/logger/console"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kgraph",
		Short: "Build knowledge graphs from text",
		Long: `kgraph annotates documents with a CoreNLP server and accumulates
the extracted entities and relations into a scored knowledge graph.

Configuration is read from the environment (and a .env file); flags
override it.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.LoadEnv()
			debug, _ := cmd.Flags().GetBool("debug")
			format, _ := cmd.Flags().GetString("log-format")
			logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
				Debug:  debug || util.GetEnvBool("DEBUG", false),
				Format: format,
				Output: cmd.ErrOrStderr(),
			}))
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json or logfmt")

	rootCmd.AddCommand(
		newVersionCmd(),
		newBuildCmd(),
		newSentencesCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kgraph version %s\n", version)
		},
	}
}
