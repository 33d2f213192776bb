// internal/application/allocate-application-id/config.go
package allocateapplicationid

import (
	"time"

	"internship-portal/internal/common/config"
)

type Config struct {
	Backend     string
	CounterName string
	KeyPrefix   string
	Prefix      string
	Timeout     time.Duration
}

func LoadConfig(cfg config.SequenceConfig) *Config {
	return &Config{
		Backend:     cfg.Backend,
		CounterName: cfg.CounterName,
		KeyPrefix:   cfg.KeyPrefix,
		Prefix:      cfg.IDPrefix,
		Timeout:     config.GetDuration(cfg.Timeout),
	}
}
