package notifications

import (
	"bytes"
	"context"
	"testing"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("noreply@nexusjobboard.com", domain.EmailJob{
		Recipient: "poster@example.com",
		Subject:   "New Application for Go Developer",
		Body:      "alice@example.com applied for Go Developer.",
	})

	assert.Equal(t, []string{"noreply@nexusjobboard.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"poster@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"New Application for Go Developer"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "applied for Go Developer.")
}

func TestConsoleMailer_Send(t *testing.T) {
	logger, hook := test.NewNullLogger()
	mailer := NewConsoleMailer("noreply@nexusjobboard.com", logger)

	err := mailer.Send(context.Background(), domain.EmailJob{Recipient: "a@example.com", Subject: "Hi", Body: "body"})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "a@example.com", entry.Data["to"])
	assert.Equal(t, "Hi", entry.Data["subject"])
	assert.Equal(t, "body", entry.Message)
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	mailer := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@nexusjobboard.com"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.Send(ctx, domain.EmailJob{Recipient: "a@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTwilioService_LogsWithoutFromNumber(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sms := NewTwilioService("", "", "", logger)

	require.NoError(t, sms.SendSMS("+15550001111", "Your password reset code is: 123456"))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "+15550001111", hook.LastEntry().Data["to"])
}
