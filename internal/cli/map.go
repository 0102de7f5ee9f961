package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/silice-dev/silice/internal/analyze"
	"github.com/silice-dev/silice/internal/config"
	"github.com/silice-dev/silice/internal/extract"
	"github.com/silice-dev/silice/internal/mapper"
	"github.com/silice-dev/silice/internal/store"
)

func RunMap(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	runner := &mapper.Runner{
		Extractor: extract.New(),
		Analyzer:  analyze.WithRetries(analyze.NewClient(cfg.BaseURL, cfg.APIKey, cfg.MapModel), cfg.Retries),
		Maps:      store.NewMapStore(cfg.OutputDir),
		IndexPath: cfg.IndexFile,
		Progress:  cmd.OutOrStdout(),
	}

	stats, err := runner.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if stats.Skipped > 0 {
		fmt.Fprintf(out, "\n%d file(s) skipped (unparsable source or failed analysis)\n", stats.Skipped)
	}
	fmt.Fprintf(out, "\n[!] Done. Individual maps are in '%s/'. Global index is in '%s'.\n",
		cfg.OutputDir, cfg.IndexFile)
	return nil
}
