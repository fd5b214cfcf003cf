package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSecretKey is only acceptable outside production.
const DefaultSecretKey = "change-me-in-production"

// Config holds all configuration for the application
type Config struct {
	Env           string
	DB            DatabaseConfig
	Redis         RedisConfig
	App           AppConfig
	RateLimit     RateLimitConfig
	Logger        LoggerConfig
	Auth          AuthConfig
	Storage       StorageConfig
	Transcription TranscriptionConfig
	Worker        WorkerConfig
	Identity      IdentityConfig
	Warrant       WarrantConfig
	Features      FeatureFlags
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
}

// RedisConfig holds configuration for Redis
type RedisConfig struct {
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheTTL    int    `mapstructure:"CACHE_TTL"` // seconds
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	GRPCPort               string   `mapstructure:"GRPC_PORT"`
	HTTPPort               string   `mapstructure:"HTTP_PORT"`
	BasePath               string   `mapstructure:"API_BASE_PATH"`
	ShutdownTimeoutSeconds int      `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	EnablePprof            bool     `mapstructure:"ENABLE_PPROF"`
	CORSOrigins            []string `mapstructure:"CORS_ORIGINS"`
}

// RateLimitConfig holds configuration for the Redis token bucket
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond int  `mapstructure:"RATE_LIMIT_RPS"`
	Burst             int  `mapstructure:"RATE_LIMIT_BURST"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	SecretKey       string        `mapstructure:"SECRET_KEY"`
	Algorithm       string        `mapstructure:"ALGORITHM"`
	Issuer          string        `mapstructure:"TOKEN_ISSUER"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_EXPIRE_HOURS"`
}

// StorageConfig holds upload settings
type StorageConfig struct {
	UploadDir         string `mapstructure:"UPLOAD_DIR"`
	MaxUploadSize     int64  `mapstructure:"MAX_UPLOAD_SIZE"`
	MaxAudioChunkSize int64  `mapstructure:"MAX_AUDIO_CHUNK_SIZE"`
}

// TranscriptionConfig holds the speech-to-text provider settings
type TranscriptionConfig struct {
	ProviderURL        string        `mapstructure:"TRANSCRIPTION_PROVIDER_URL"`
	APIKey             string        `mapstructure:"TRANSCRIPTION_API_KEY"`
	Model              string        `mapstructure:"TRANSCRIPTION_MODEL"`
	Timeout            time.Duration `mapstructure:"TRANSCRIPTION_TIMEOUT_SECONDS"`
	DefaultLanguage    string        `mapstructure:"TRANSCRIPTION_DEFAULT_LANGUAGE"`
	SupportedLanguages []string      `mapstructure:"SUPPORTED_LANGUAGES"`
}

// WorkerConfig holds background job settings
type WorkerConfig struct {
	MaxWorkers  int `mapstructure:"WORKER_MAX_WORKERS"`
	MaxAttempts int `mapstructure:"WORKER_MAX_ATTEMPTS"`
}

// IdentityConfig holds identity verification settings
type IdentityConfig struct {
	CacheTTL time.Duration `mapstructure:"IDENTITY_CACHE_TTL_HOURS"`
}

// WarrantConfig holds warrant delivery settings
type WarrantConfig struct {
	DeliveryMode    string `mapstructure:"WARRANT_DELIVERY_MODE"` // record, http
	AgencyEndpoints map[string]string
}

// FeatureFlags toggle optional modules
type FeatureFlags struct {
	VirtualCourt    bool `mapstructure:"ENABLE_VIRTUAL_COURT"`
	DecisionSupport bool `mapstructure:"ENABLE_DECISION_SUPPORT"`
	WarrantTransfer bool `mapstructure:"ENABLE_WARRANT_TRANSFER"`
}

// LoadConfig reads configuration from app.env in path, overlaid by environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	config.Env = v.GetString("APP_ENV")

	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")

	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = v.GetInt("CACHE_TTL")

	config.App.GRPCPort = v.GetString("GRPC_PORT")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.BasePath = v.GetString("API_BASE_PATH")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	config.App.EnablePprof = v.GetBool("ENABLE_PPROF")
	config.App.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetInt("RATE_LIMIT_RPS")
	config.RateLimit.Burst = v.GetInt("RATE_LIMIT_BURST")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.Auth.SecretKey = v.GetString("SECRET_KEY")
	config.Auth.Algorithm = v.GetString("ALGORITHM")
	config.Auth.Issuer = v.GetString("TOKEN_ISSUER")
	config.Auth.AccessTokenTTL = time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute
	config.Auth.RefreshTokenTTL = time.Duration(v.GetInt("REFRESH_TOKEN_EXPIRE_HOURS")) * time.Hour

	config.Storage.UploadDir = v.GetString("UPLOAD_DIR")
	config.Storage.MaxUploadSize = v.GetInt64("MAX_UPLOAD_SIZE")
	config.Storage.MaxAudioChunkSize = v.GetInt64("MAX_AUDIO_CHUNK_SIZE")

	config.Transcription.ProviderURL = v.GetString("TRANSCRIPTION_PROVIDER_URL")
	config.Transcription.APIKey = v.GetString("TRANSCRIPTION_API_KEY")
	config.Transcription.Model = v.GetString("TRANSCRIPTION_MODEL")
	config.Transcription.Timeout = time.Duration(v.GetInt("TRANSCRIPTION_TIMEOUT_SECONDS")) * time.Second
	config.Transcription.DefaultLanguage = v.GetString("TRANSCRIPTION_DEFAULT_LANGUAGE")
	config.Transcription.SupportedLanguages = splitList(v.GetString("SUPPORTED_LANGUAGES"))

	config.Worker.MaxWorkers = v.GetInt("WORKER_MAX_WORKERS")
	config.Worker.MaxAttempts = v.GetInt("WORKER_MAX_ATTEMPTS")

	config.Identity.CacheTTL = time.Duration(v.GetInt("IDENTITY_CACHE_TTL_HOURS")) * time.Hour

	config.Warrant.DeliveryMode = v.GetString("WARRANT_DELIVERY_MODE")
	config.Warrant.AgencyEndpoints = map[string]string{}
	for _, agency := range []string{"ncs", "npf", "efcc", "icpc"} {
		if endpoint := v.GetString("WARRANT_ENDPOINT_" + strings.ToUpper(agency)); endpoint != "" {
			config.Warrant.AgencyEndpoints[agency] = endpoint
		}
	}

	config.Features.VirtualCourt = v.GetBool("ENABLE_VIRTUAL_COURT")
	config.Features.DecisionSupport = v.GetBool("ENABLE_DECISION_SUPPORT")
	config.Features.WarrantTransfer = v.GetBool("ENABLE_WARRANT_TRANSFER")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "court_system")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("CACHE_TTL", 300)

	v.SetDefault("GRPC_PORT", "50051")
	v.SetDefault("HTTP_PORT", "8000")
	v.SetDefault("API_BASE_PATH", "/api")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 15)
	v.SetDefault("ENABLE_PPROF", false)
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "court-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")

	v.SetDefault("SECRET_KEY", DefaultSecretKey)
	v.SetDefault("ALGORITHM", "HS256")
	v.SetDefault("TOKEN_ISSUER", "court-service")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	v.SetDefault("REFRESH_TOKEN_EXPIRE_HOURS", 168)

	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_SIZE", 104857600)
	v.SetDefault("MAX_AUDIO_CHUNK_SIZE", 10485760)

	v.SetDefault("TRANSCRIPTION_PROVIDER_URL", "")
	v.SetDefault("TRANSCRIPTION_API_KEY", "")
	v.SetDefault("TRANSCRIPTION_MODEL", "whisper-1")
	v.SetDefault("TRANSCRIPTION_TIMEOUT_SECONDS", 120)
	v.SetDefault("TRANSCRIPTION_DEFAULT_LANGUAGE", "en-NG")
	v.SetDefault("SUPPORTED_LANGUAGES", "en-NG,pcm-NG,yo-NG,ha-NG,ig-NG,fr-NG,es-NG")

	v.SetDefault("WORKER_MAX_WORKERS", 4)
	v.SetDefault("WORKER_MAX_ATTEMPTS", 3)

	v.SetDefault("IDENTITY_CACHE_TTL_HOURS", 24)

	v.SetDefault("WARRANT_DELIVERY_MODE", "record")

	v.SetDefault("ENABLE_VIRTUAL_COURT", true)
	v.SetDefault("ENABLE_DECISION_SUPPORT", true)
	v.SetDefault("ENABLE_WARRANT_TRANSFER", true)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the configuration before any dependency is built.
func (c *Config) Validate() error {
	var errs []error

	if c.DB.Host == "" || c.DB.Port == "" || c.DB.Name == "" {
		errs = append(errs, errors.New("database host, port and name are required"))
	}
	if c.Redis.Host == "" || c.Redis.Port == "" {
		errs = append(errs, errors.New("redis host and port are required"))
	}
	if c.App.HTTPPort == "" || c.App.GRPCPort == "" {
		errs = append(errs, errors.New("HTTP_PORT and GRPC_PORT are required"))
	}
	if c.App.BasePath != "" && !strings.HasPrefix(c.App.BasePath, "/") {
		errs = append(errs, errors.New("API_BASE_PATH must start with '/'"))
	}
	if c.Redis.PoolSize <= 0 || c.DB.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("pool sizes must be positive"))
	}
	if c.Redis.CacheTTL <= 0 || c.Identity.CacheTTL <= 0 {
		errs = append(errs, errors.New("cache TTLs must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit rps and burst must be positive"))
	}
	if c.Auth.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.Env == "production" && c.Auth.SecretKey == DefaultSecretKey {
		errs = append(errs, errors.New("SECRET_KEY must be changed in production"))
	}
	if c.Auth.Algorithm != "HS256" {
		errs = append(errs, fmt.Errorf("unsupported token algorithm %q", c.Auth.Algorithm))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Storage.MaxUploadSize <= 0 || c.Storage.MaxAudioChunkSize <= 0 {
		errs = append(errs, errors.New("upload size limits must be positive"))
	}
	if c.Worker.MaxWorkers <= 0 || c.Worker.MaxAttempts <= 0 {
		errs = append(errs, errors.New("worker settings must be positive"))
	}
	switch c.Warrant.DeliveryMode {
	case "record", "http":
	default:
		errs = append(errs, fmt.Errorf("unknown WARRANT_DELIVERY_MODE %q", c.Warrant.DeliveryMode))
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// URL returns the PostgreSQL connection URL used by pgx.
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}
