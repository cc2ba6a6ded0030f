package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names accepted in the environment key.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the root configuration for the CodeCollab API. It is loaded once
// at startup and handed to the boot stages — stages never read the process
// environment themselves.
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Auth        AuthConfig      `mapstructure:"auth"`
	GitHub      GitHubConfig    `mapstructure:"github"`
	RateLimit   RateLimitConfig `mapstructure:"ratelimit"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// URL, when set, takes precedence over the discrete fields below.
	// Bound to DATABASE_URL for platform compatibility.
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type GitHubConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
	FrontendURL  string `mapstructure:"frontend_url"`
}

type RateLimitConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	ServiceName  string `mapstructure:"service_name"`
	LogLevel     string `mapstructure:"log_level"`
}

// DSN returns the Postgres connection string, preferring the full URL when
// one was configured.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DB, d.SSLMode,
	)
}

// Addr returns the host:port pair for the rate-limit Redis instance.
func (r RateLimitConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsDevelopment reports whether the service runs in development mode.
// Development mode unlocks endpoints such as the full user listing.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsProduction reports whether the service runs in production mode.
// Production mode marks the refresh-token cookie as Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads config from the optional YAML file at path, then overlays
// environment variables with the APCC_ prefix (e.g. APCC_SERVER_PORT).
// Bare PORT, DATABASE_URL, and the GitHub/JWT variables are also honored so
// the service works unchanged on platforms that inject those.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("APCC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key without a default needs an explicit binding or an env-only
	// deployment silently loses it.
	_ = v.BindEnv("server.port", "APCC_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", "APCC_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("database.password", "APCC_DATABASE_PASSWORD")
	_ = v.BindEnv("auth.jwt_secret", "APCC_AUTH_JWT_SECRET", "JWT_SECRET_KEY")
	_ = v.BindEnv("github.client_id", "APCC_GITHUB_CLIENT_ID", "GITHUB_CLIENT_ID")
	_ = v.BindEnv("github.client_secret", "APCC_GITHUB_CLIENT_SECRET", "GITHUB_CLIENT_SECRET")
	_ = v.BindEnv("github.callback_url", "APCC_GITHUB_CALLBACK_URL", "GITHUB_CALLBACK_URL")
	_ = v.BindEnv("github.frontend_url", "APCC_GITHUB_FRONTEND_URL", "FRONTEND_URL")
	_ = v.BindEnv("ratelimit.password", "APCC_RATELIMIT_PASSWORD")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the values the boot pipeline cannot run without. It is
// called once after Load, before any stage starts.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}

	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.DB == "") {
		return fmt.Errorf("database connection is not configured (set DATABASE_URL or database.host/database.db)")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvProduction)

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.db", "codecollab")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 25)

	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.host", "localhost")
	v.SetDefault("ratelimit.port", 6379)
	v.SetDefault("ratelimit.db", 0)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", true)
	v.SetDefault("telemetry.service_name", "codecollab-api")
	v.SetDefault("telemetry.log_level", "info")
}
