package notifications

import (
	"context"
	"fmt"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
	mail "gopkg.in/mail.v2"
)

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements domain.Mailer over SMTP
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(cfg SMTPConfig) domain.Mailer {
	return &SMTPMailer{
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send implements domain.Mailer
func (m *SMTPMailer) Send(ctx context.Context, job domain.EmailJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := BuildMessage(m.from, job)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", job.Recipient, err)
	}
	return nil
}

// BuildMessage renders an email job as a plain text message.
func BuildMessage(from string, job domain.EmailJob) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", job.Recipient)
	msg.SetHeader("Subject", job.Subject)
	msg.SetBody("text/plain", job.Body)
	return msg
}

// ConsoleMailer implements domain.Mailer by logging the message
type ConsoleMailer struct {
	from string
	log  logrus.FieldLogger
}

// NewConsoleMailer creates a mailer that writes to the log
func NewConsoleMailer(from string, log logrus.FieldLogger) domain.Mailer {
	return &ConsoleMailer{from: from, log: log}
}

// Send implements domain.Mailer
func (m *ConsoleMailer) Send(_ context.Context, job domain.EmailJob) error {
	m.log.WithFields(logrus.Fields{
		"from":    m.from,
		"to":      job.Recipient,
		"subject": job.Subject,
	}).Info(job.Body)
	return nil
}
