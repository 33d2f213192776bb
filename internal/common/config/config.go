// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Sequence      SequenceConfig     `mapstructure:"sequence"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Validation    ValidationConfig   `mapstructure:"validation"`
	Search        SearchConfig       `mapstructure:"search"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// IsDevelopment reports whether internal error details may be exposed.
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

type ServerConfig struct {
	Port              int   `mapstructure:"port"`
	ReadTimeout       int   `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout      int   `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout   int   `mapstructure:"shutdown_timeout"` // milliseconds
	RequestTimeout    int   `mapstructure:"request_timeout"`  // milliseconds
	MaxBodyBytes      int64 `mapstructure:"max_body_bytes"`
	SubmitRatePerHour int   `mapstructure:"submit_rate_per_hour"`
	SubmitBurst       int   `mapstructure:"submit_burst"`
	APIRatePer15Min   int   `mapstructure:"api_rate_per_15min"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	// Peers (IP or CIDR) whose X-Forwarded-For / X-Real-IP headers are believed.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SequenceConfig selects where the application id counter lives.
type SequenceConfig struct {
	Backend     string `mapstructure:"backend"` // "postgres" or "redis"
	CounterName string `mapstructure:"counter_name"`
	KeyPrefix   string `mapstructure:"key_prefix"` // redis only
	IDPrefix    string `mapstructure:"id_prefix"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
}

const (
	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"
)

// NotificationConfig holds settings for the notification dispatcher.
type NotificationConfig struct {
	Email struct {
		Enabled    bool   `mapstructure:"enabled"`
		FromEmail  string `mapstructure:"from_email"`
		FromName   string `mapstructure:"from_name"`
		AdminEmail string `mapstructure:"admin_email"`
	} `mapstructure:"email"`
	SNS struct {
		Enabled       bool   `mapstructure:"enabled"`
		AdminTopicARN string `mapstructure:"admin_topic_arn"`
	} `mapstructure:"sns"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Timeout int `mapstructure:"timeout"` // milliseconds, per send
}

// ValidationConfig holds the bounds enforced on submissions.
type ValidationConfig struct {
	MinGraduationYear int     `mapstructure:"min_graduation_year"`
	MaxGraduationYear int     `mapstructure:"max_graduation_year"`
	MinCGPA           float64 `mapstructure:"min_cgpa"`
	MaxCGPA           float64 `mapstructure:"max_cgpa"`
	CoverLetterMaxLen int     `mapstructure:"cover_letter_max_length"`
}

// SearchConfig holds admin list/search paging limits.
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
	Timeout      int `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
