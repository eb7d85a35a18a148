package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	GoogleClientID     string
	GoogleClientSecret string
	ExportDir          string
	ExportSecret       string
	ScanBatchSize      int
	ExportWorkerCount  int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=etsy_scanner port=5432 sslmode=disable"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		ExportDir:          getEnv("EXPORT_DIR", "./exports"),
		ExportSecret:       getEnv("EXPORT_SIGNING_SECRET", "change-me-in-production"),
		ScanBatchSize:      getEnvInt("SCAN_BATCH_SIZE", 20),
		ExportWorkerCount:  getEnvInt("EXPORT_WORKER_COUNT", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
