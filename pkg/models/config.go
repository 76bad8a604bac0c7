package models

import "time"

// OpenAIConfig holds settings for the LLM extraction backend.
// An empty APIKey disables the backend and selects fallback extraction.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model  string `yaml:"model" mapstructure:"model"`
}

// GmailConfig holds settings for the Gmail polling loop.
type GmailConfig struct {
	CredentialsFile string        `yaml:"credentials_file" mapstructure:"credentials_file"`
	TokenFile       string        `yaml:"token_file" mapstructure:"token_file"`
	PollInterval    time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	IngestURL       string        `yaml:"ingest_url" mapstructure:"ingest_url"`
}

// Config holds system-wide settings read from .mailtask.yaml via Viper.
type Config struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	StorePath    string        `yaml:"store_path" mapstructure:"store_path"`
	EventLogPath string        `yaml:"event_log_path" mapstructure:"event_log_path"`
	SlackWebhook string        `yaml:"slack_webhook,omitempty" mapstructure:"slack_webhook"`
	Development  bool          `yaml:"development" mapstructure:"development"`
	OpenAI       OpenAIConfig  `yaml:"openai" mapstructure:"openai"`
	Gmail        GmailConfig   `yaml:"gmail" mapstructure:"gmail"`
	HTTPTimeout  time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
}
