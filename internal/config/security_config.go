package config

import "time"

type SecurityConfig interface {
	GetSessionTTL() time.Duration
	GetSecretLength() int
	GetSecretHashCost() int
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionTTL() time.Duration {
	return 24 * time.Hour
}

func (Security) GetSecretLength() int {
	return 32 // 32 bytes = 256 bits
}

func (Security) GetSecretHashCost() int {
	return 10 // bcrypt.DefaultCost
}
