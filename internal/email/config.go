package email

import (
	"strings"

	"campaignhub_backend/internal/config"
)

const (
	defaultSMTPPort = 587
	defaultFromName = "CampaignHub"
)

// SMTPConfig - сервер и отправитель писем об отказах по заявкам.
// Порт 465 gomail открывает через TLS, остальные через STARTTLS.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// ConfigFromSettings собирает SMTPConfig из секции email.
// nil означает, что отправка выключена (email.enabled=false).
func ConfigFromSettings(s config.EmailSettings) *SMTPConfig {
	if !s.Enabled {
		return nil
	}

	cfg := &SMTPConfig{
		Host:      strings.TrimSpace(s.SMTPHost),
		Port:      s.SMTPPort,
		Username:  s.SMTPUsername,
		Password:  s.SMTPPassword,
		FromEmail: strings.TrimSpace(s.FromEmail),
		FromName:  strings.TrimSpace(s.FromName),
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}
	// Почтовые сервисы обычно отклоняют письма с чужим From
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.Username
	}
	return cfg
}
