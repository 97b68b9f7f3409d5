// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	LocalStore  LocalStoreConfig
	Snapshots   SnapshotConfig
	Redis       RedisConfig
	AWS         AWSConfig
	AI          AIConfig
	Speech      SpeechConfig
	Video       VideoConfig
	Remote      RemoteConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

// Enabled reports whether a remote mirror is configured at all. Without a
// host the service runs local-only.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type LocalStoreConfig struct {
	Path string
}

type SnapshotConfig struct {
	Path       string
	QuotaBytes int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL int // seconds
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
	LocalUploadDir  string
}

type AIConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
}

type SpeechConfig struct {
	APIKey  string
	BaseURL string
}

type VideoConfig struct {
	APIKey  string
	BaseURL string
}

type RemoteConfig struct {
	TimeoutSeconds int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", ""),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "fabricator"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		LocalStore: LocalStoreConfig{
			Path: getEnv("LOCAL_STORE_PATH", "./data/fabricator.db"),
		},
		Snapshots: SnapshotConfig{
			Path:       getEnv("SNAPSHOT_PATH", "./data/studio_projects.json"),
			QuotaBytes: getEnvAsInt64("SNAPSHOT_QUOTA_BYTES", 5*1024*1024),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsInt("REDIS_CACHE_TTL", 30),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "fabricator-assets"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
			LocalUploadDir:  getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
		},
		AI: AIConfig{
			APIKey:     getEnv("GOOGLE_AI_API_KEY", ""),
			BaseURL:    getEnv("GOOGLE_AI_BASE_URL", "https://generativelanguage.googleapis.com"),
			TextModel:  getEnv("GOOGLE_AI_TEXT_MODEL", "gemini-2.5-flash"),
			ImageModel: getEnv("GOOGLE_AI_IMAGE_MODEL", "gemini-2.5-flash-image-preview"),
		},
		Speech: SpeechConfig{
			APIKey:  getEnv("ELEVENLABS_API_KEY", ""),
			BaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		},
		Video: VideoConfig{
			APIKey:  getEnv("FAL_KEY", ""),
			BaseURL: getEnv("FAL_BASE_URL", "https://fal.run"),
		},
		Remote: RemoteConfig{
			TimeoutSeconds: getEnvAsInt("REMOTE_TIMEOUT_SECONDS", 3),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Database.Enabled() && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Snapshots.QuotaBytes <= 0 {
		return fmt.Errorf("snapshot quota must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
