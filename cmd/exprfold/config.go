package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config holds defaults for command-line flags.
type Config struct {
	// Prec is the precision in bits of arbitrary-precision calculations.
	Prec int
	// MaxDepth limits bracket nesting. Zero means no limit.
	MaxDepth int
	// LogLevel is the logrus level name.
	LogLevel string
	// History is the file holding interactive history.
	History string
}

// loadConfig loads configuration from environment variables.
func loadConfig() *Config {
	return &Config{
		Prec:     getEnvIntWithMin("EXPRFOLD_PREC", 64, 1),
		MaxDepth: getEnvIntWithMin("EXPRFOLD_MAX_DEPTH", 0, 0),
		LogLevel: getEnv("EXPRFOLD_LOG_LEVEL", "warning"),
		History:  getEnv("EXPRFOLD_HISTORY", defaultHistory()),
	}
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".exprfold_history")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intVal, err := strconv.Atoi(value)
		if err == nil {
			return intVal
		}
		logrus.Debugf("Invalid integer value for %s: %s, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvIntWithMin(key string, defaultValue, minValue int) int {
	value := getEnvInt(key, defaultValue)
	if value < minValue {
		logrus.Debugf("%s value %d is below minimum %d, using minimum", key, value, minValue)
		return minValue
	}
	return value
}
