package config

import (
	"errors"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Index    IndexConfig
	Reports  ReportsConfig
	Sync     SyncConfig
	LogLevel string
}

// IndexConfig locates the three search indexes. Empty paths mean in-memory
// indexes, which only makes sense for tests and one-off runs.
type IndexConfig struct {
	MasterPath   string
	FilteredPath string
	AlignRxPath  string
}

// ReportsConfig locates the report drop directory and the processed-file
// registry next to it.
type ReportsConfig struct {
	Dir           string
	RegistryPath  string
	AllowlistPath string
}

type SyncConfig struct {
	Schedule       string
	TimeoutMinutes int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Index: IndexConfig{
			MasterPath:   getEnv("INDEX_MASTER_PATH", "./data/index/master.bleve"),
			FilteredPath: getEnv("INDEX_FILTERED_PATH", "./data/index/filtered.bleve"),
			AlignRxPath:  getEnv("INDEX_ALIGNRX_PATH", "./data/index/alignrx.bleve"),
		},
		Reports: ReportsConfig{
			Dir:           getEnv("REPORTS_DIR", "./data/reports"),
			RegistryPath:  getEnv("REPORTS_REGISTRY_PATH", "./data/processed_files.json"),
			AllowlistPath: getEnv("ORIGINATOR_ALLOWLIST_PATH", ""),
		},
		Sync: SyncConfig{
			Schedule:       getEnv("SYNC_SCHEDULE", "*/15 * * * *"),
			TimeoutMinutes: getEnvAsInt("SYNC_TIMEOUT_MINUTES", 30),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Index.MasterPath != "" && cfg.Index.MasterPath == cfg.Index.FilteredPath {
		return nil, errors.New("INDEX_MASTER_PATH and INDEX_FILTERED_PATH must differ")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
