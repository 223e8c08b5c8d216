package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers text messages through a Twilio messaging service.
type Sender struct {
	client              *twilio.RestClient
	messagingServiceSID string
}

func New(accountSID, authToken, messagingServiceSID string) *Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Sender{client: client, messagingServiceSID: messagingServiceSID}
}

// Send delivers body to an E.164 phone number. The Twilio client manages
// its own HTTP timeouts; ctx is accepted for interface symmetry.
func (s *Sender) Send(_ context.Context, to, body string) error {
	if !strings.HasPrefix(to, "+") {
		return fmt.Errorf("invalid phone number: %s", to)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetMessagingServiceSid(s.messagingServiceSID)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}
	return nil
}
