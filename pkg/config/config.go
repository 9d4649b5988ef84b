package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Firebase  FirebaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Fraud     FraudConfig
	Import    ImportConfig
	Dashboard DashboardConfig
	Auth      AuthConfig
	Breaker   BreakerConfig
	Sentry    SentryConfig
	Secrets   SecretsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int    // seconds, applied to long running routes such as CSV import
	CORSOrigins    string // Comma-separated list of allowed origins
}

// FirebaseConfig holds Firebase configuration
type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
	CredentialsJSON string // populated from the secret store, wins over CredentialsPath
	Enabled         bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// StorageConfig holds object storage configuration for archived CSV uploads
type StorageConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	BaseURL   string
}

// FraudConfig holds fraud heuristic configuration
type FraudConfig struct {
	RulesPath string
}

// ImportConfig holds CSV import configuration
type ImportConfig struct {
	MaxUploadMB int
	Archive     bool
}

// DashboardConfig holds dashboard configuration
type DashboardConfig struct {
	CacheTTL time.Duration
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	SuperAdminEmails []string
}

// BreakerConfig holds circuit breaker tuning for Firestore calls
type BreakerConfig struct {
	IntervalSeconds  int
	TimeoutSeconds   int
	FailureThreshold int
	SuccessThreshold int
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN string
}

// SecretsConfig selects a secret store and the references to resolve from it.
// References use [provider://]path[@version][#key].
type SecretsConfig struct {
	Provider               string // gcp, aws or file; empty disables the secret store
	GCPProject             string
	AWSRegion              string
	AWSEndpoint            string
	FileDir                string
	CacheTTL               time.Duration
	FirebaseCredentialsRef string
	SentryDSNRef           string
	StorageKeysRef         string
	RedisPasswordRef       string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cacheTTL, err := getEnvAsDuration("DASHBOARD_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	secretsTTL, err := getEnvAsDuration("SECRETS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 30),
			RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT", 60),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			Enabled:         getEnvAsBool("FIREBASE_ENABLED", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		Storage: StorageConfig{
			Bucket:    getEnv("STORAGE_BUCKET", ""),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			BaseURL:   getEnv("STORAGE_BASE_URL", ""),
		},
		Fraud: FraudConfig{
			RulesPath: getEnv("FRAUD_RULES_PATH", ""),
		},
		Import: ImportConfig{
			MaxUploadMB: getEnvAsInt("IMPORT_MAX_UPLOAD_MB", 10),
			Archive:     getEnvAsBool("IMPORT_ARCHIVE_ENABLED", false),
		},
		Dashboard: DashboardConfig{
			CacheTTL: cacheTTL,
		},
		Auth: AuthConfig{
			SuperAdminEmails: getEnvAsList("SUPER_ADMIN_EMAILS"),
		},
		Breaker: BreakerConfig{
			IntervalSeconds:  getEnvAsInt("BREAKER_INTERVAL_SECONDS", 60),
			TimeoutSeconds:   getEnvAsInt("BREAKER_TIMEOUT_SECONDS", 30),
			FailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvAsInt("BREAKER_SUCCESS_THRESHOLD", 1),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
		Secrets: SecretsConfig{
			Provider:               getEnv("SECRETS_PROVIDER", ""),
			GCPProject:             getEnv("SECRETS_GCP_PROJECT", ""),
			AWSRegion:              getEnv("SECRETS_AWS_REGION", ""),
			AWSEndpoint:            getEnv("SECRETS_AWS_ENDPOINT", ""),
			FileDir:                getEnv("SECRETS_FILE_DIR", ""),
			CacheTTL:               secretsTTL,
			FirebaseCredentialsRef: getEnv("SECRET_FIREBASE_CREDENTIALS", ""),
			SentryDSNRef:           getEnv("SECRET_SENTRY_DSN", ""),
			StorageKeysRef:         getEnv("SECRET_STORAGE_KEYS", ""),
			RedisPasswordRef:       getEnv("SECRET_REDIS_PASSWORD", ""),
		},
	}

	if cfg.Import.Archive && cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("IMPORT_ARCHIVE_ENABLED requires STORAGE_BUCKET")
	}

	return cfg, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// MaxUploadBytes returns the upload limit in bytes
func (c *ImportConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
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

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
