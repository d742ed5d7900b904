package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileEnv names the environment variable pointing at an optional config file.
const FileEnv = "MOVEQUOTE_CONFIG"

const (
	keyCacheDBPath   = "CACHE_DB_PATH"
	keyDatabaseURL   = "DATABASE_URL"
	keyProbeURL      = "PROBE_URL"
	keyProbeTimeout  = "PROBE_TIMEOUT"
	keyAdminSecret   = "ADMIN_SECRET"
	keySessionSecret = "SESSION_SECRET"
	keyPort          = "PORT"
	keyLogLevel      = "LOG_LEVEL"
	keySeedDir       = "SEED_DIR"
)

// Config holds application configuration.
type Config struct {
	CacheDBPath   string
	DatabaseURL   string
	ProbeURL      string
	ProbeTimeout  time.Duration
	AdminSecret   string
	SessionSecret string
	Port          string
	LogLevel      string
	SeedDir       string
}

// Load reads dotenv files (default ".env"), then resolves every key from
// defaults, the optional file named by MOVEQUOTE_CONFIG and the environment,
// later sources winning. Existing environment variables are never
// overwritten by dotenv files.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		// A missing file is fine.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetDefault(keyCacheDBPath, "./items_database.db")
	v.SetDefault(keyProbeURL, "https://www.google.com")
	v.SetDefault(keyProbeTimeout, "3s")
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyLogLevel, "INFO")
	v.SetDefault(keySeedDir, "./seed")
	v.SetDefault(keyDatabaseURL, "")
	v.SetDefault(keyAdminSecret, "")
	v.SetDefault(keySessionSecret, "")

	if path := os.Getenv(FileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		CacheDBPath:   v.GetString(keyCacheDBPath),
		DatabaseURL:   v.GetString(keyDatabaseURL),
		ProbeURL:      v.GetString(keyProbeURL),
		ProbeTimeout:  v.GetDuration(keyProbeTimeout),
		AdminSecret:   v.GetString(keyAdminSecret),
		SessionSecret: v.GetString(keySessionSecret),
		Port:          v.GetString(keyPort),
		LogLevel:      v.GetString(keyLogLevel),
		SeedDir:       v.GetString(keySeedDir),
	}
	if cfg.ProbeTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be a positive duration", keyProbeTimeout)
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL is not set, catalog will be read from the local cache only")
	}
	if cfg.AdminSecret == "" {
		slog.Warn("ADMIN_SECRET is not set, catalog editing is disabled")
	}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET is not set, admin sessions are signed with a per-process key")
	}

	return cfg, nil
}

// Online reports whether an authoritative store is configured at all.
func (c Config) Online() bool {
	return c.DatabaseURL != ""
}
