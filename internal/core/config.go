package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/mailtask/pkg/models"
)

// configName is the config file stem looked up in the base path.
const configName = ".mailtask"

// ConfigurationManager defines the interface for loading and writing
// the .mailtask.yaml configuration file.
type ConfigurationManager interface {
	Load() (*models.Config, error)
	WriteDefault() (string, error)
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file with environment overrides.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with the defaults used when
// no config file is present.
func DefaultConfig() *models.Config {
	return &models.Config{
		Host:         "0.0.0.0",
		Port:         8000,
		StorePath:    "data/tasks.json",
		EventLogPath: "data/events.jsonl",
		Development:  false,
		HTTPTimeout:  30 * time.Second,
		OpenAI: models.OpenAIConfig{
			Model: "gpt-4",
		},
		Gmail: models.GmailConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
			PollInterval:    60 * time.Second,
			IngestURL:       "http://localhost:8000/ingest-email",
		},
	}
}

// Load reads .mailtask.yaml from the base path. A missing file is not
// an error; defaults are returned. Environment variables override file
// values: MAILTASK_* for every key plus OPENAI_API_KEY for the model
// credential.
func (cm *viperConfigManager) Load() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("store_path", cfg.StorePath)
	v.SetDefault("event_log_path", cfg.EventLogPath)
	v.SetDefault("slack_webhook", cfg.SlackWebhook)
	v.SetDefault("development", cfg.Development)
	v.SetDefault("http_timeout", cfg.HTTPTimeout)
	v.SetDefault("openai.model", cfg.OpenAI.Model)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("gmail.credentials_file", cfg.Gmail.CredentialsFile)
	v.SetDefault("gmail.token_file", cfg.Gmail.TokenFile)
	v.SetDefault("gmail.poll_interval", cfg.Gmail.PollInterval)
	v.SetDefault("gmail.ingest_url", cfg.Gmail.IngestURL)

	v.SetEnvPrefix("MAILTASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The model credential keeps its conventional name so an existing
	// OPENAI_API_KEY in the environment or .env just works.
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key env var: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s.yaml: %w", configName, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// WriteDefault writes a .mailtask.yaml file with default values to the
// base path and returns its path. An existing file is left untouched.
func (cm *viperConfigManager) WriteDefault() (string, error) {
	path := filepath.Join(cm.basePath, configName+".yaml")
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshalling default config: %w", err)
	}

	header := "# mailtask configuration. Environment variables (MAILTASK_*,\n# OPENAI_API_KEY) override values in this file.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}
