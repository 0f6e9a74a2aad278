package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	JWT      JWTConfig
	Planner  PlannerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration. Redis backs the feature-flag store;
// the service falls back to an in-memory store when Enabled is false.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
	PresignExpiry   time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
}

// PlannerConfig holds the model-query layer configuration. Bound from
// PLANNER_* environment variables via envconfig.
type PlannerConfig struct {
	// local | hosted | auto. Auto prefers the local endpoint when reachable.
	ProviderMode string `envconfig:"PROVIDER_MODE" default:"auto"`

	LocalEndpoint   string `envconfig:"LOCAL_ENDPOINT" default:"http://127.0.0.1:8000"`
	LocalAuthHeader string `envconfig:"LOCAL_AUTH_HEADER" default:""`
	LocalModel      string `envconfig:"LOCAL_MODEL" default:"meta-llama/Meta-Llama-3.1-70B-Instruct"`

	HostedEndpoint string   `envconfig:"HOSTED_ENDPOINT" default:"https://api.groq.com"`
	HostedAPIKey   string   `envconfig:"HOSTED_API_KEY" default:""`
	HostedModel    string   `envconfig:"HOSTED_MODEL" default:"llama-3.1-70b-versatile"`
	FallbackModels []string `envconfig:"FALLBACK_MODELS" default:"llama-3.1-8b-instant"`

	MaxRetries    int           `envconfig:"MAX_RETRIES" default:"3"`
	BackoffBase   time.Duration `envconfig:"BACKOFF_BASE" default:"1200ms"`
	MaxTokens     int           `envconfig:"MAX_TOKENS" default:"900"`
	Temperature   float64       `envconfig:"TEMPERATURE" default:"0.2"`
	BatchWidth    int           `envconfig:"BATCH_WIDTH" default:"2"`
	ModelEnabled  bool          `envconfig:"MODEL_ENABLED" default:"true"`
	QueryTimeout  time.Duration `envconfig:"QUERY_TIMEOUT" default:"90s"`
	ProbeTimeout  time.Duration `envconfig:"PROBE_TIMEOUT" default:"2s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "autoeditor"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "autoeditor-videos"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
			PresignExpiry:   getEnvAsDuration("STORAGE_PRESIGN_EXPIRY", "30m"),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", "your-access-secret-change-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", "24h"),
		},
	}

	if err := envconfig.Process("PLANNER", &config.Planner); err != nil {
		return nil, fmt.Errorf("failed to bind planner config: %w", err)
	}
	config.Planner.Normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Normalize clamps planner settings into their documented ranges.
func (p *PlannerConfig) Normalize() {
	if p.MaxRetries < 1 {
		p.MaxRetries = 1
	}
	if p.MaxRetries > 8 {
		p.MaxRetries = 8
	}
	if p.BatchWidth < 1 {
		p.BatchWidth = 1
	}
	if p.BatchWidth > 4 {
		p.BatchWidth = 4
	}
	if p.BackoffBase <= 0 {
		p.BackoffBase = 1200 * time.Millisecond
	}
	switch p.ProviderMode {
	case "local", "hosted", "auto":
	default:
		p.ProviderMode = "auto"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Environment == "production" && c.JWT.AccessSecret == "your-access-secret-change-in-production" {
		return fmt.Errorf("JWT_ACCESS_SECRET must be set in production")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.Redis.Addr()
}

// Addr returns the host:port form of the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
