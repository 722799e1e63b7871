package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "FLASHGEN"

// ConfigPathEnv names an optional configuration file (yaml, toml or json).
const ConfigPathEnv = "FLASHGEN_CONFIG"

var defaults = map[string]any{
	"server.port":                  8080,
	"server.log_level":             "info",
	"database.url":                 "",
	"database.max_open_conns":      25,
	"database.max_idle_conns":      5,
	"auth.jwt_secret":              "",
	"auth.issuer":                  "",
	"llm.provider":                 ProviderOpenRouter,
	"llm.api_key":                  "",
	"llm.model_name":               "openai/gpt-4o-mini",
	"llm.endpoint":                 "",
	"llm.referer":                  "",
	"llm.title":                    "flashgen",
	"llm.system_message":           "",
	"llm.temperature":              0.7,
	"llm.max_tokens":               1500,
	"llm.top_p":                    1.0,
	"llm.timeout_seconds":          60,
	"llm.max_attempts":             3,
	"cache.redis_addr":             "",
	"cache.redis_password":         "",
	"cache.redis_db":               0,
	"cache.ttl_minutes":            60,
	"generation.min_source_length": 1000,
	"generation.max_source_length": 10000,
}

// Load reads the full application configuration from defaults, the optional
// file named by FLASHGEN_CONFIG and FLASHGEN_* environment variables, in
// increasing order of precedence, and validates it.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadLLM is Load for tools that only talk to the LLM provider. Only the llm
// and generation sections are validated.
func LoadLLM() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(cfg.LLM); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := validate.Struct(cfg.Generation); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func read() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv(ConfigPathEnv)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
