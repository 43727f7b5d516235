// Package config loads datasetutil settings from the environment.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/datasetutil/datasetutil/internal/model"
)

// Config holds environment-derived settings for one process.
type Config struct {
	// HomeDir holds the session store and logs.
	HomeDir string

	// Passphrase encrypts the session store. Empty disables encryption.
	Passphrase string

	LogFile  string
	LogLevel string

	// LicenseFile records acceptance of the license agreement.
	LicenseFile string
}

// Load reads configuration from environment variables and an optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		userHome = "."
	}

	home := getEnvOrDefault("DATASETUTIL_HOME", filepath.Join(userHome, ".datasetutil"))
	cfg := &Config{
		HomeDir:     home,
		Passphrase:  os.Getenv("DATASETUTIL_PASSPHRASE"),
		LogFile:     getEnvOrDefault("DATASETUTIL_LOG_FILE", filepath.Join(home, "logs", "datasetutil.log")),
		LogLevel:    strings.ToLower(getEnvOrDefault("DATASETUTIL_LOG_LEVEL", "info")),
		LicenseFile: getEnvOrDefault("DATASETUTIL_LICENSE_FILE", filepath.Join(userHome, ".ac.datautils.lic")),
	}
	return cfg, nil
}

// SessionDBPath returns the path of the session log database.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.HomeDir, "sessions.db")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Runtime holds the switches set by command-line flags.
// It is built once by the argument parser and passed by value afterwards.
type Runtime struct {
	Debug             bool
	Ext               bool
	Server            bool
	CodingErrorAction model.CodingErrorAction
}

// DefaultRuntime returns the switches in effect when no flag overrides them.
func DefaultRuntime() Runtime {
	return Runtime{CodingErrorAction: model.CodingErrorReport}
}
