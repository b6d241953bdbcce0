package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "PROMPTGEN"

// envAliases lists additional environment variable names accepted for a key,
// checked after the prefixed name.
var envAliases = map[string][]string{
	"llm.api_key": {"COHERE_API_KEY"},
	"llm.model":   {"COHERE_MODEL"},
}

// Load configuration from environment variables and optionally a config.yaml
// file in the working directory. Environment variables take precedence over
// values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithPaths(".")
}

// LoadWithPaths is Load searching the given directories for config.yaml.
func LoadWithPaths(paths ...string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the rules that span several sections.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.History.Backend == HistoryBackendPostgres && cfg.Database.URL == "" {
		return errors.New("config validation failed: database.url is required when history.backend is postgres")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.generation_timeout_seconds", 0)

	v.SetDefault("llm.provider", ProviderCohere)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.allow_model_override", false)

	v.SetDefault("history.backend", HistoryBackendMemory)
	v.SetDefault("history.limit", 50)

	v.SetDefault("database.url", "")
}

// bindEnv binds every known key to its prefixed variable plus any aliases,
// so keys are resolved from the environment even without a config file.
func bindEnv(v *viper.Viper) error {
	for _, key := range v.AllKeys() {
		names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		names = append(names, envAliases[key]...)

		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}
