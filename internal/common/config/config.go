package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Helpdesk   HelpdeskConfig   `mapstructure:"helpdesk"`
	Completion CompletionConfig `mapstructure:"completion"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// HelpdeskConfig holds the connection settings for the upstream helpdesk API.
type HelpdeskConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	Email         string `mapstructure:"email"`
	APIToken      string `mapstructure:"api_token"`
	Timeout       int    `mapstructure:"timeout"`        // milliseconds
	PageDelay     int    `mapstructure:"page_delay"`     // milliseconds between paginated calls
	MaxPages      int    `mapstructure:"max_pages"`      // pagination cap per call
	RetryAfterCap int    `mapstructure:"retry_after_cap"` // seconds; bound for 429 Retry-After waits
}

// CompletionConfig holds the settings for the LLM completion provider.
// An empty APIKey gates the gateway into fallback-only mode.
type CompletionConfig struct {
	Provider     string  `mapstructure:"provider"`
	BaseURL      string  `mapstructure:"base_url"`
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature"`
	Timeout      int     `mapstructure:"timeout"` // milliseconds
	SystemPrompt string  `mapstructure:"system_prompt"`
}

// Enabled reports whether live completions are configured.
func (c CompletionConfig) Enabled() bool {
	return c.APIKey != ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func validateConfig(cfg *Config) error {
	if cfg.Helpdesk.BaseURL == "" {
		return fmt.Errorf("helpdesk.base_url is required")
	}
	if cfg.Helpdesk.Email == "" || cfg.Helpdesk.APIToken == "" {
		return fmt.Errorf("helpdesk.email and helpdesk.api_token are required")
	}
	if cfg.Completion.Enabled() && cfg.Completion.BaseURL == "" {
		return fmt.Errorf("completion.base_url is required when an API key is set")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "helpdesk-insights"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Helpdesk.Timeout == 0 {
		cfg.Helpdesk.Timeout = 30000
	}
	if cfg.Helpdesk.PageDelay == 0 {
		cfg.Helpdesk.PageDelay = 200
	}
	if cfg.Helpdesk.MaxPages == 0 {
		cfg.Helpdesk.MaxPages = 10
	}
	if cfg.Helpdesk.RetryAfterCap == 0 {
		cfg.Helpdesk.RetryAfterCap = 10
	}
	if cfg.Completion.Provider == "" {
		cfg.Completion.Provider = "openai"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "gpt-4o-mini"
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 600
	}
	if cfg.Completion.Temperature == 0 {
		cfg.Completion.Temperature = 0.4
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 30000
	}
	if cfg.Completion.SystemPrompt == "" {
		cfg.Completion.SystemPrompt = "You are a helpdesk reporting assistant. Answer using only the live data provided in the conversation. If the data is insufficient, say so clearly and keep the answer concise."
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9102"
	}
}
