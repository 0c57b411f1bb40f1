package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel        = "deepseek-chat"
	DefaultBaseURL      = "https://api.deepseek.com"
	DefaultSystemPrompt = "You are a capable assistant."
)

// Config is constructed once at startup and passed into every component
// constructor. Immutable afterwards, except that a command line supplied
// prompt replaces SystemPrompt before the session begins.
type Config struct {
	APIKey       string `yaml:"-"`
	Model        string `yaml:"model"`
	BaseURL      string `yaml:"base_url"`
	SystemPrompt string `yaml:"system_prompt"`
	EnableEmoji  bool   `yaml:"-"`
	EnableColor  bool   `yaml:"-"`
}

// FromEnv builds the configuration from environment variables, falling back
// to an optional yaml defaults file and finally to built-in defaults. The
// API key is required, everything else has a default.
func FromEnv() (Config, error) {
	apiKey := os.Getenv("DOLORES_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("API key not set, please set the environment variable DOLORES_API_KEY or configure it in a .env file")
	}

	conf := Config{
		APIKey:       apiKey,
		Model:        DefaultModel,
		BaseURL:      DefaultBaseURL,
		SystemPrompt: DefaultSystemPrompt,
		EnableEmoji:  true,
		EnableColor:  true,
	}
	applyFileDefaults(&conf, defaultsPath())

	if v := os.Getenv("DOLORES_MODEL_ID"); v != "" {
		conf.Model = v
	}
	if v := os.Getenv("DOLORES_BASE_URL"); v != "" {
		conf.BaseURL = v
	}
	conf.EnableEmoji = boolFromEnv("DOLORES_ENABLE_EMOJI", conf.EnableEmoji)
	conf.EnableColor = boolFromEnv("DOLORES_ENABLE_COLOR", conf.EnableColor)
	return conf, nil
}

func defaultsPath() string {
	confDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return path.Join(confDir, "dolores", "config.yaml")
}

// applyFileDefaults overlays non-empty values from an optional yaml file.
// A missing or malformed file is ignored, env and built-ins still apply.
func applyFileDefaults(conf *Config, filePath string) {
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	var fileConf Config
	if err := yaml.Unmarshal(data, &fileConf); err != nil {
		return
	}
	if fileConf.Model != "" {
		conf.Model = fileConf.Model
	}
	if fileConf.BaseURL != "" {
		conf.BaseURL = fileConf.BaseURL
	}
	if fileConf.SystemPrompt != "" {
		conf.SystemPrompt = fileConf.SystemPrompt
	}
}

// boolFromEnv parses case-insensitively, 'true' is the only truthy literal.
func boolFromEnv(key string, dfault bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return dfault
	}
	return strings.EqualFold(v, "true")
}
