package notifications

import (
	"fmt"

	"github.com/nexus/jobboard/domain"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioServiceImpl implements domain.SMSSender
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
	log        logrus.FieldLogger
}

// NewTwilioService creates a new Twilio SMS sender. Without a from number
// messages are only logged.
func NewTwilioService(accountSID, authToken, fromNumber string, log logrus.FieldLogger) domain.SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
		log:        log,
	}
}

// SendSMS implements domain.SMSSender
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	if t.fromNumber == "" {
		t.log.WithFields(logrus.Fields{"to": to, "message": message}).Info("sms (twilio not configured)")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
