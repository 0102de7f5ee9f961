// Package cli wires the silice subcommands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "silice",
		Short: "Map a codebase into an AI-readable knowledge graph",
		Long: `Silice walks your source tree, asks a language model to summarize each
file's functions, classes, and dependencies, and persists the result as
per-file JSON maps plus a master index (index.json).

The query command answers impact and summary questions over the maps;
the chat command is a retrieval-augmented bridge to the model.`,
	}

	mapCmd := &cobra.Command{
		Use:   "map <path>...",
		Short: "Analyze files or directories and build the knowledge graph",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunMap,
	}

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query the generated knowledge graph",
		RunE:  RunQuery,
	}
	queryCmd.Flags().String("impact", "", "Search for what depends on this component")
	queryCmd.Flags().String("info", "", "Get the cached summary of a specific file")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the model about your codebase",
		RunE:  RunChat,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("silice %s\n", version)
		},
	}

	rootCmd.AddCommand(
		mapCmd,
		queryCmd,
		chatCmd,
		versionCmd,
	)

	return rootCmd
}
