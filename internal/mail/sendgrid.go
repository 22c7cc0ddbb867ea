package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

const sendEndpoint = "/v3/mail/send"

// SendGridMailer отправляет письма через SendGrid API
type SendGridMailer struct {
	apiKey string
	from   *mail.Email
	host   string
	log    logrus.FieldLogger
}

func NewSendGridMailer(apiKey, fromAddress, fromName string, log logrus.FieldLogger) (*SendGridMailer, error) {
	if fromAddress == "" {
		return nil, errors.New("sender email address must be provided")
	}
	return &SendGridMailer{
		apiKey: apiKey,
		from:   mail.NewEmail(fromName, fromAddress),
		log:    log,
	}, nil
}

// WithHost направляет запросы на другой адрес API
func (m *SendGridMailer) WithHost(host string) *SendGridMailer {
	m.host = strings.TrimRight(host, "/")
	return m
}

// Send создает клиента на каждый вызов: клиент SendGrid хранит тело запроса в себе
func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if to == "" {
		return errors.New("recipient email address must be provided")
	}

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))

	message := mail.NewV3Mail()
	message.SetFrom(m.from)
	message.Subject = subject
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/html", htmlBody))

	client := sendgrid.NewSendClient(m.apiKey)
	if m.host != "" {
		client.BaseURL = m.host + sendEndpoint
	}

	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		m.log.WithError(err).WithField("to", to).Error("Error sending email")
		return fmt.Errorf("sendgrid: %w", err)
	}

	if resp.StatusCode >= 300 {
		m.log.WithFields(logrus.Fields{
			"to":     to,
			"status": resp.StatusCode,
		}).Error("Email rejected by provider")
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}

	m.log.WithFields(logrus.Fields{
		"to":     to,
		"status": resp.StatusCode,
	}).Info("Email sent")
	return nil
}
