// Package config loads application configuration from defaults, an optional
// YAML file and RESTAURANT_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable. Nested keys use "__",
// e.g. RESTAURANT_JWT__SECRET_KEY.
const EnvPrefix = "RESTAURANT_"

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Log        LogConfig        `koanf:"log"`
	JWT        JWTConfig        `koanf:"jwt"`
	CORS       CORSConfig       `koanf:"cors"`
	Mail       MailConfig       `koanf:"mail"`
	LoginLimit LoginLimitConfig `koanf:"login_limit"`
	Redis      RedisConfig      `koanf:"redis"`
	GraphQL    GraphQLConfig    `koanf:"graphql"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port" validate:"required"`
	MetricsPort       string        `koanf:"metrics_port" validate:"required"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL             string        `koanf:"url" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts" validate:"gte=1"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// JWTConfig configures session tokens. A zero TokenTTL issues tokens that
// never expire.
type JWTConfig struct {
	SecretKey string        `koanf:"secret_key" validate:"required"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gte=0"`
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// MailConfig configures outgoing SMTP mail.
type MailConfig struct {
	Enabled      bool          `koanf:"enabled"`
	SMTPHost     string        `koanf:"smtp_host" validate:"required_if=Enabled true"`
	SMTPPort     int           `koanf:"smtp_port"`
	SMTPUser     string        `koanf:"smtp_user"`
	SMTPPassword string        `koanf:"smtp_password"`
	FromAddress  string        `koanf:"from_address" validate:"required_if=Enabled true"`
	SendTimeout  time.Duration `koanf:"send_timeout"`
}

// LoginLimitConfig throttles login attempts per email.
type LoginLimitConfig struct {
	Backend  string        `koanf:"backend" validate:"oneof=none memory redis"`
	Attempts int           `koanf:"attempts" validate:"gte=1"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

// RedisConfig is used when LoginLimit.Backend is "redis".
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Timeout  time.Duration `koanf:"timeout"`
}

// GraphQLConfig tunes the GraphQL endpoint.
type GraphQLConfig struct {
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`
	Playground   bool  `koanf:"playground"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectTimeout:  60 * time.Second,
			ConnectAttempts: 5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Mail: MailConfig{
			SMTPPort:    587,
			SendTimeout: 30 * time.Second,
		},
		LoginLimit: LoginLimitConfig{
			Backend:  "memory",
			Attempts: 5,
			Window:   15 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Timeout: 5 * time.Second,
		},
		GraphQL: GraphQLConfig{
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Load builds the configuration. path may be empty.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.LoginLimit.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("invalid config: redis.addr is required when login_limit.backend is redis")
	}
	return nil
}

// envKey maps RESTAURANT_JWT__SECRET_KEY to jwt.secret_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
