package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Log      LogConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// DatabaseConfig selects the relational store. Driver is one of
// "postgres" (lib/pq), "pgx" or "sqlite".
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Path     string
}

type StorageConfig struct {
	Mode              string
	Bucket            string
	EmulatorHost      string
	CredentialsJSON   string
	UploadURLTTL      time.Duration
	DeleteConcurrency int
}

type LogConfig struct {
	File   string
	Level  string
	Stdout bool
}

type AuthConfig struct {
	JWTSecret string
}

// Load reads .env (if present) and builds the configuration from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "onway"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
			Path:     getEnv("DB_PATH", "./onway.db"),
		},
		Storage: StorageConfig{
			Mode:              getEnv("OBJECT_STORAGE_MODE", "gcs"),
			Bucket:            getEnv("CDN_BUCKET_NAME", ""),
			EmulatorHost:      getEnv("STORAGE_EMULATOR_HOST", ""),
			CredentialsJSON:   getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),
			UploadURLTTL:      getEnvDuration("UPLOAD_URL_TTL", 5*time.Minute),
			DeleteConcurrency: getEnvInt("BLOB_DELETE_CONCURRENCY", 8),
		},
		Log: LogConfig{
			File:   getEnv("LOG_FILE", "./logs/app.log"),
			Level:  getEnv("LOG_LEVEL", "debug"),
			Stdout: getEnvBool("LOG_STDOUT", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "supersecret"),
		},
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return i
}

func getEnvBool(key string, defaultValue bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
