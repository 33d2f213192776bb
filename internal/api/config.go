// internal/api/config.go
package api

import (
	"time"

	"internship-portal/internal/common/config"
)

type Config struct {
	Environment    string
	Version        string
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	SubmitRatePerHour int
	SubmitBurst       int
	APIRatePer15Min   int

	DefaultLimit   int
	MaxLimit       int
	AllowedOrigins []string
	TrustedProxies []string
}

func LoadConfig(app config.AppConfig, server config.ServerConfig, search config.SearchConfig) *Config {
	return &Config{
		Environment:       app.Environment,
		Version:           app.Version,
		MaxBodyBytes:      server.MaxBodyBytes,
		RequestTimeout:    config.GetDuration(server.RequestTimeout),
		SubmitRatePerHour: server.SubmitRatePerHour,
		SubmitBurst:       server.SubmitBurst,
		APIRatePer15Min:   server.APIRatePer15Min,
		DefaultLimit:      search.DefaultLimit,
		MaxLimit:          search.MaxLimit,
		AllowedOrigins:    server.CORSAllowedOrigins,
		TrustedProxies:    server.TrustedProxies,
	}
}
