package config

import "time"

type OracleConfig interface {
	GetOracleAPIKey() string
	GetOracleBaseURL() string
	GetOracleModel() string
	GetOracleTimeout() time.Duration
}

type Oracle struct{}

var _ OracleConfig = Oracle{}

// GetOracleAPIKey returns the key for the text generation backend. When empty
// the oracle always answers with its fallback.
func (Oracle) GetOracleAPIKey() string {
	return GetEnv("OPENAI_API_KEY", "")
}

func (Oracle) GetOracleBaseURL() string {
	return GetEnv("OPENAI_BASE_URL", "")
}

func (Oracle) GetOracleModel() string {
	return GetEnv("ORACLE_MODEL", "gpt-4o-mini")
}

func (Oracle) GetOracleTimeout() time.Duration {
	return GetEnvDuration("ORACLE_TIMEOUT", 15*time.Second)
}
