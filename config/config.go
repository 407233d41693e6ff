// Package config loads pressrun configuration: code defaults, overlaid by
// ~/.pressrun/config.yaml when present, overlaid by environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PushConfig configures the URL push run.
type PushConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Site      string `yaml:"site"`
	Token     string `yaml:"token"`
	URLFile   string `yaml:"url_file"`
	BatchSize int    `yaml:"batch_size"`
}

// GenerateConfig configures the article generation run.
type GenerateConfig struct {
	Model            string `yaml:"model"`
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	PromptFile       string `yaml:"prompt_file"`
	DatasetFile      string `yaml:"dataset_file"`
	NewPostCommand   string `yaml:"new_post_command"`
	SiteDir          string `yaml:"site_dir"`
	ImagePlaceholder string `yaml:"image_placeholder"`
}

// JournalConfig configures the run journal.
type JournalConfig struct {
	DSN string `yaml:"dsn"`
}

// Config is the full pressrun configuration.
type Config struct {
	Push     PushConfig     `yaml:"push"`
	Generate GenerateConfig `yaml:"generate"`
	Journal  JournalConfig  `yaml:"journal"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Push: PushConfig{
			Endpoint:  "http://data.zz.baidu.com/urls",
			URLFile:   "public/baidu_urls.txt",
			BatchSize: 10,
		},
		Generate: GenerateConfig{
			Model:          "gpt-4o-mini",
			NewPostCommand: "hexo",
		},
		Journal: JournalConfig{
			DSN: "pressrun.db",
		},
	}
}

// Load returns the effective configuration: defaults, the user's config file
// if one exists, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	if err := cfg.mergeFile(filepath.Join(homeDir, ".pressrun", "config.yaml")); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFile returns the configuration from a specific file path overlaid on
// defaults and environment. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// mergeFile overlays the YAML file at path onto cfg. A missing file is not
// an error; an unparsable one is.
func (c *Config) mergeFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables with the highest precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("PRESSRUN_PUSH_ENDPOINT"); v != "" {
		c.Push.Endpoint = v
	}
	if v := os.Getenv("PRESSRUN_PUSH_SITE"); v != "" {
		c.Push.Site = v
	}
	if v := os.Getenv("PRESSRUN_PUSH_TOKEN"); v != "" {
		c.Push.Token = v
	}
	if v := os.Getenv("PRESSRUN_PUSH_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Push.BatchSize = n
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Generate.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.Generate.BaseURL = v
	}
	if v := os.Getenv("PRESSRUN_JOURNAL_DSN"); v != "" {
		c.Journal.DSN = v
	}
}
