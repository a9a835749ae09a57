package adapters

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"fx_backend/internal/feature/mail/usecase"
)

// SMTPConfig はSMTP接続の設定です。
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured は実配信に必要な認証情報が揃っているかを返します。
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ usecase.Transport = (*smtpMailer)(nil)

// NewSMTPMailer は指定された設定でSMTPトランスポートを生成します。
func NewSMTPMailer(cfg SMTPConfig) *smtpMailer {
	from := cfg.From
	if from == "" {
		from = "fx-backend@localhost"
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (m *smtpMailer) Send(subject, body, recipient string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	return nil
}
