package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	defaultSessionSecret      = "secret"
	defaultAuthProviderSecret = "provider-secret"
)

type Config struct {
	AppEnv        string
	Port          string
	StorageDriver string
	LogLevel      string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	RedisURL      string
	RedisAddr     string
	RedisPassword string

	SessionSecret      string
	SessionTTL         time.Duration
	AuthProviderURL    string
	AuthProviderSecret string
	AuthLogoutURL      string
	AdminEmails        []string
	LoginRateLimit     float64

	OriginURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	KafkaBrokers []string
	KafkaTopic   string

	MaxUploadSize int64
}

var AppConfig *Config

// LoadConfig reads the environment. In production it refuses to run with the
// built-in development secrets.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	AppConfig = &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "5000")),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "veggie_shop"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionSecret:      getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:         getDuration("SESSION_TTL", 7*24*time.Hour),
		AuthProviderURL:    getEnv("AUTH_PROVIDER_URL", "http://localhost:4000/authorize"),
		AuthProviderSecret: getEnv("AUTH_PROVIDER_SECRET", defaultAuthProviderSecret),
		AuthLogoutURL:      getEnv("AUTH_LOGOUT_URL", "/"),
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		LoginRateLimit:     getFloat("LOGIN_RATE_LIMIT", 1),

		OriginURL: os.Getenv("ORIGIN_URL"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "veggie-shop.orders"),

		MaxUploadSize: int64(getInt("MAX_UPLOAD_SIZE", 5242880)),
	}

	if err := AppConfig.validate(); err != nil {
		return nil, err
	}
	return AppConfig, nil
}

func (c *Config) validate() error {
	if !c.IsProduction() {
		return nil
	}
	var errs []error
	if c.SessionSecret == defaultSessionSecret {
		errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
	}
	if c.AuthProviderSecret == defaultAuthProviderSecret {
		errs = append(errs, errors.New("AUTH_PROVIDER_SECRET must be set in production"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
