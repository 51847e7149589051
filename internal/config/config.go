package config

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	OracleConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetSeedFile() string
	GetLogLevel() string
	GetPersist() bool
	GetRecoverCorrupt() bool
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Oracle
}

func New() Config {
	return mainConfig{}
}
