package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"sendiab_backend/internal/catalog"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPProvider sends credential emails through a plain SMTP relay.
type SMTPProvider struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPProvider(config SMTPConfig) *SMTPProvider {
	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (p *SMTPProvider) SendCredentials(to, displayName, accountID, secret string, plan *catalog.Plan) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.From, p.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your SEN'Diabete practitioner account")
	m.SetBody("text/plain", credentialsBody(displayName, accountID, secret, plan))

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email: send credentials: %w", err)
	}
	return nil
}
