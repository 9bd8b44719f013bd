package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevTokenSecret signs tokens in development when no secret is configured.
// It is exactly 32 bytes so it also works as a PASETO key.
const DevTokenSecret = "mediintake-dev-secret-0123456789"

// AppConfig holds the application configuration
type AppConfig struct {
	Port    string `mapstructure:"PORT"`
	Env     string `mapstructure:"ENV"`
	DataDir string `mapstructure:"DATA_DIR"`

	TokenFormat string        `mapstructure:"TOKEN_FORMAT"`
	TokenSecret string        `mapstructure:"TOKEN_SECRET"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost  int           `mapstructure:"BCRYPT_COST"`

	RedisURL        string        `mapstructure:"REDIS_URL"`
	HistoryCacheTTL time.Duration `mapstructure:"HISTORY_CACHE_TTL"`

	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	BedrockEnabled   bool          `mapstructure:"BEDROCK_ENABLED"`
	AWSRegion        string        `mapstructure:"AWS_REGION"`
	BedrockModelID   string        `mapstructure:"BEDROCK_MODEL_ID"`
	GeneratorTimeout time.Duration `mapstructure:"GENERATOR_TIMEOUT"`

	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string   `mapstructure:"KAFKA_TOPIC"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	BackupBucket string `mapstructure:"BACKUP_BUCKET"`
	BackupPrefix string `mapstructure:"BACKUP_PREFIX"`

	// UsingDevSecret is set when TOKEN_SECRET was empty in development and
	// DevTokenSecret was substituted.
	UsingDevSecret bool `mapstructure:"-"`
}

var keys = []string{
	"PORT", "ENV", "DATA_DIR",
	"TOKEN_FORMAT", "TOKEN_SECRET", "TOKEN_TTL", "BCRYPT_COST",
	"REDIS_URL", "HISTORY_CACHE_TTL",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"LOG_LEVEL", "LOG_FILE",
	"BEDROCK_ENABLED", "AWS_REGION", "BEDROCK_MODEL_ID", "GENERATOR_TIMEOUT",
	"KAFKA_BROKERS", "KAFKA_TOPIC",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM",
	"BACKUP_BUCKET", "BACKUP_PREFIX",
}

// Load reads configuration from the given file, or from ./.env when path is
// empty, and lets environment variables override it. A missing ./.env is not
// an error; a missing explicit file is.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8930")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("TOKEN_FORMAT", "jwt")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("HISTORY_CACHE_TTL", "5m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 15)
	v.SetDefault("RATE_LIMIT_BURST", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BEDROCK_ENABLED", false)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0")
	v.SetDefault("GENERATOR_TIMEOUT", "20s")
	v.SetDefault("KAFKA_TOPIC", "mediintake.events")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("BACKUP_PREFIX", "mediintake")

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigFile(".env")
		_ = v.ReadInConfig()
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokers)

	if cfg.TokenSecret == "" && cfg.IsDev() {
		cfg.TokenSecret = DevTokenSecret
		cfg.UsingDevSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList accepts both real lists and a single comma separated value.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run.
func (c *AppConfig) Validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if c.DataDir == "" {
		return errors.New("DATA_DIR is required")
	}
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET is required outside development")
	}
	switch c.TokenFormat {
	case "jwt":
	case "paseto":
		if len(c.TokenSecret) != 32 {
			return fmt.Errorf("TOKEN_SECRET must be 32 bytes for paseto tokens, got %d", len(c.TokenSecret))
		}
	default:
		return fmt.Errorf("TOKEN_FORMAT must be \"jwt\" or \"paseto\", got %q", c.TokenFormat)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.HistoryCacheTTL <= 0 {
		return errors.New("HISTORY_CACHE_TTL must be positive")
	}
	if c.GeneratorTimeout <= 0 {
		return errors.New("GENERATOR_TIMEOUT must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// GetTokenSecret returns the token signing secret from the config
func (c *AppConfig) GetTokenSecret() string {
	return c.TokenSecret
}

// Addr is the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}
