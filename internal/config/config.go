package config

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains PostgreSQL settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig configures verification of identity provider tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// Issuer, when set, must match the iss claim of every token.
	Issuer string `mapstructure:"issuer"`
}

// LLM providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// LLMConfig configures the flashcard generation client.
type LLMConfig struct {
	Provider       string  `mapstructure:"provider" validate:"required,oneof=openrouter gemini"`
	APIKey         string  `mapstructure:"api_key" validate:"required"`
	ModelName      string  `mapstructure:"model_name" validate:"required"`
	Endpoint       string  `mapstructure:"endpoint" validate:"omitempty,url"`
	Referer        string  `mapstructure:"referer"`
	Title          string  `mapstructure:"title"`
	SystemMessage  string  `mapstructure:"system_message"`
	Temperature    float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int     `mapstructure:"max_tokens" validate:"gt=0"`
	TopP           float64 `mapstructure:"top_p" validate:"gt=0,lte=1"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxAttempts    int     `mapstructure:"max_attempts" validate:"gt=0,lte=10"`
}

// CacheConfig configures the optional Redis generation cache. The cache is
// disabled when RedisAddr is empty.
type CacheConfig struct {
	RedisAddr     string `mapstructure:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
	TTLMinutes    int    `mapstructure:"ttl_minutes" validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// GenerationConfig bounds the source text accepted for generation.
type GenerationConfig struct {
	MinSourceLength int `mapstructure:"min_source_length" validate:"gte=1"`
	MaxSourceLength int `mapstructure:"max_source_length" validate:"gtfield=MinSourceLength"`
}
