package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration, loaded from YAML with
// environment variable expansion ("${VAR}" in the file).
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Summarizer struct {
		Enabled bool   `yaml:"enabled"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
	} `yaml:"summarizer"`

	Engagement struct {
		// Cron spec for the engagement classifier, standard 5-field syntax.
		Schedule string `yaml:"schedule"`
		// Days without activity before a user is considered at risk / inactive.
		AtRiskAfterDays   int `yaml:"at_risk_after_days"`
		InactiveAfterDays int `yaml:"inactive_after_days"`
	} `yaml:"engagement"`
}

// LoadFromBytes decodes YAML config bytes after expanding environment
// variables, then fills defaults for anything left unset.
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

// LoadFromFile reads and decodes a YAML config file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8480
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "./data/coach.db"
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gpt-4o"
	}
	if c.Summarizer.APIKey == "" {
		c.Summarizer.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Engagement.Schedule == "" {
		c.Engagement.Schedule = "0 3 * * *"
	}
	if c.Engagement.AtRiskAfterDays == 0 {
		c.Engagement.AtRiskAfterDays = 7
	}
	if c.Engagement.InactiveAfterDays == 0 {
		c.Engagement.InactiveAfterDays = 21
	}
}
