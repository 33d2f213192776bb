// internal/application/index-application/config.go
package indexapplication

import (
	"time"

	"internship-portal/internal/common/config"
)

type Config struct {
	IndexName    string
	DefaultLimit int
	MaxLimit     int
	Timeout      time.Duration
}

func LoadConfig(es config.ElasticsearchConfig, search config.SearchConfig) *Config {
	return &Config{
		IndexName:    es.Index,
		DefaultLimit: search.DefaultLimit,
		MaxLimit:     search.MaxLimit,
		Timeout:      config.GetDuration(search.Timeout),
	}
}
