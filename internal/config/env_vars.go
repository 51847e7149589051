package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar           = "PORT"
	appNameVar           = "APP_NAME"
	folderEnvVar         = "FOLDER"
	seedFileEnvVar       = "SEED_FILE"
	logLevelEnvVar       = "LOG_LEVEL"
	persistEnvVar        = "PERSIST"
	recoverCorruptEnvVar = "RECOVER_CORRUPT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Aletheia")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetSeedFile returns the optional YAML file listing default users and content.
// An empty value means the built-in defaults are used.
func (EnvVars) GetSeedFile() string {
	return GetEnv(seedFileEnvVar, "")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

// GetPersist reports whether credentials and content are written to the data folder.
func (EnvVars) GetPersist() bool {
	return GetEnvBool(persistEnvVar, true)
}

// GetRecoverCorrupt reports whether an unreadable state file should be replaced
// by an empty table instead of failing startup.
func (EnvVars) GetRecoverCorrupt() bool {
	return GetEnvBool(recoverCorruptEnvVar, false)
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvBool(envVar string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
