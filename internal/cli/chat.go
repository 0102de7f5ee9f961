package cli

import (
	"os"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/silice-dev/silice/internal/bridge"
	"github.com/silice-dev/silice/internal/config"
	"github.com/silice-dev/silice/internal/store"
)

func RunChat(cmd *cobra.Command, args []string) error {
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

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(apiCfg)

	b := &bridge.Bridge{
		Index: index,
		Maps:  store.NewMapStore(cfg.OutputDir),
		TopK:  cfg.TopK,
		Chat:  bridge.OpenAIChat(client, cfg.ChatModel),
		In:    cmd.InOrStdin(),
		Out:   cmd.OutOrStdout(),
	}
	return b.Run(cmd.Context())
}
