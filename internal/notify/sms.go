package notify

import (
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSNotifier sends transactional texts through Twilio. It is a no-op
// when credentials are not configured, so local development never needs
// a Twilio account.
type SMSNotifier struct {
	client *twilio.RestClient
	from   string
	log    *logrus.Logger
}

func NewSMSNotifier(accountSID, authToken, from string, log *logrus.Logger) *SMSNotifier {
	if accountSID == "" || authToken == "" || from == "" {
		return &SMSNotifier{log: log}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSNotifier{client: client, from: from, log: log}
}

func (n *SMSNotifier) Enabled() bool {
	return n.client != nil
}

// SendWelcome texts a signup greeting. Failures are logged, never
// surfaced: SMS delivery must not fail a signup.
func (n *SMSNotifier) SendWelcome(to, name string) {
	if !n.Enabled() || to == "" {
		return
	}

	body := "Welcome to the book review club, " + name + "! Post your first review whenever you're ready."
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		n.log.WithFields(logrus.Fields{"to": to, "error": err.Error()}).Warn("failed to send welcome SMS")
		return
	}
	n.log.WithField("to", to).Info("welcome SMS sent")
}
