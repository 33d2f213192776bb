// internal/application/send-notification/config.go
package sendnotification

import (
	"time"

	"internship-portal/internal/common/config"
)

type Config struct {
	EmailEnabled  bool
	FromEmail     string
	FromName      string
	AdminEmail    string
	SNSEnabled    bool
	AdminTopicARN string
	Timeout       time.Duration
}

func LoadConfig(cfg config.NotificationConfig) *Config {
	return &Config{
		EmailEnabled:  cfg.Email.Enabled,
		FromEmail:     cfg.Email.FromEmail,
		FromName:      cfg.Email.FromName,
		AdminEmail:    cfg.Email.AdminEmail,
		SNSEnabled:    cfg.SNS.Enabled,
		AdminTopicARN: cfg.SNS.AdminTopicARN,
		Timeout:       config.GetDuration(cfg.Timeout),
	}
}
