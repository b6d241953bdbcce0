package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// GenerationTimeoutSeconds bounds each LLM call; 0 disables the deadline.
	GenerationTimeoutSeconds int `mapstructure:"generation_timeout_seconds" validate:"gte=0"`
}

// LLM providers supported by the gateway factory.
const (
	ProviderCohere    = "cohere"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=cohere gemini anthropic openai"`
	APIKey   string `mapstructure:"api_key" validate:"required"`

	// Model overrides the provider's default model when set.
	Model string `mapstructure:"model"`

	// BaseURL points the provider client at a different endpoint (proxies,
	// OpenAI-compatible vendors, tests).
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// MaxTokens caps the reply length for providers that require it.
	MaxTokens int `mapstructure:"max_tokens" validate:"gte=0"`

	// AllowModelOverride lets callers pick a model per request.
	AllowModelOverride bool `mapstructure:"allow_model_override"`
}

// History storage backends.
const (
	HistoryBackendMemory   = "memory"
	HistoryBackendPostgres = "postgres"
)

// HistoryConfig controls where prompt history is kept and how much of it.
type HistoryConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory postgres"`
	Limit   int    `mapstructure:"limit" validate:"required,gt=0,lte=1000"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is required only for the postgres history backend.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}
