package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/silice-dev/silice/internal/config"
	"github.com/silice-dev/silice/internal/graph"
	"github.com/silice-dev/silice/internal/store"
)

func RunQuery(cmd *cobra.Command, args []string) error {
	impact, err := cmd.Flags().GetString("impact")
	if err != nil {
		return err
	}
	info, err := cmd.Flags().GetString("info")
	if err != nil {
		return err
	}
	if impact == "" && info == "" {
		return cmd.Help()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	index, err := store.RequireIndex(cfg.IndexFile)
	if err != nil {
		return err
	}
	g := graph.Load(index, store.NewMapStore(cfg.OutputDir))

	out := cmd.OutOrStdout()
	if impact != "" {
		fmt.Fprintf(out, "\n--- Impact Analysis for: **%s** ---\n", impact)
		impacted := g.FindDependents(impact)
		if len(impacted) == 0 {
			fmt.Fprintln(out, "No direct dependents found in the current graph.")
		}
		for _, imp := range impacted {
			fmt.Fprintf(out, "  [!] Potential Impact: **%s** (%s)\n", imp.File, imp.Reason)
		}
		return nil
	}

	summary, err := g.ShowSummary(info)
	if err != nil {
		if errors.Is(err, graph.ErrNoSummary) {
			fmt.Fprintf(out, "No summary available for %q.\n", info)
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "\n### Logic Summary for %s:\n", summary.File)
	fmt.Fprintf(out, "> %s\n", summary.Summary)
	fmt.Fprintf(out, "\n**Functions:** %s\n", strings.Join(summary.Functions, ", "))
	return nil
}
