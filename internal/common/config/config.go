package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// CatalogDBPath is the SQLite file holding the material catalog.
	CatalogDBPath string
	// CatalogSeedPath is an optional YAML catalog imported at startup.
	CatalogSeedPath string
	// BodyLimitMB caps upload size.
	BodyLimitMB int
	// AllowedOrigins is honored by CORS in production only.
	AllowedOrigins []string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "3001"),
		Environment:     getEnv("ENV", "development"),
		ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 10),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "data/db/catalog.db"),
		CatalogSeedPath: getEnv("CATALOG_SEED_PATH", ""),
		BodyLimitMB:     getEnvAsInt("BODY_LIMIT_MB", 16),
		AllowedOrigins:  getEnvAsList("CORS_ORIGINS"),
	}
}

// BodyLimit returns the upload cap in bytes.
func (c *Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 16 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
