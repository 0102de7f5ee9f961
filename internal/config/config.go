// Package config resolves runtime settings: built-in defaults, then an
// optional .silice.yaml, then SILICE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project config file.
const FileName = ".silice.yaml"

// Config holds everything the mapper, query tool, and chat bridge need.
type Config struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	MapModel  string `yaml:"map_model"`
	ChatModel string `yaml:"chat_model"`
	OutputDir string `yaml:"output_dir"`
	IndexFile string `yaml:"index_file"`
	TopK      int    `yaml:"top_k"`
	Retries   int    `yaml:"retries"`
}

// Default returns the built-in settings: a local Ollama endpoint through its
// OpenAI-compatible API, with the well-known index and output locations.
func Default() Config {
	return Config{
		BaseURL:   "http://localhost:11434/v1",
		APIKey:    "ollama",
		MapModel:  "gemma3:4b",
		ChatModel: "llama3",
		OutputDir: "silice_output",
		IndexFile: "index.json",
		TopK:      3,
		Retries:   3,
	}
}

// Load resolves the config for a project rooted at dir.
func Load(dir string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	applyEnv(&cfg)

	if cfg.TopK <= 0 {
		cfg.TopK = Default().TopK
	}
	if cfg.Retries <= 0 {
		cfg.Retries = Default().Retries
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&cfg.BaseURL, "SILICE_BASE_URL")
	setString(&cfg.APIKey, "SILICE_API_KEY")
	setString(&cfg.MapModel, "SILICE_MAP_MODEL")
	setString(&cfg.ChatModel, "SILICE_CHAT_MODEL")
	setString(&cfg.OutputDir, "SILICE_OUTPUT_DIR")
	setString(&cfg.IndexFile, "SILICE_INDEX_FILE")
	setInt(&cfg.TopK, "SILICE_TOP_K")
	setInt(&cfg.Retries, "SILICE_RETRIES")
}
