package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendService struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSendService(apiKey, fromEmail, fromName string) *MailerSendService {
	client := mailersend.NewMailersend(apiKey)

	from := mailersend.From{
		Name:  fromName,
		Email: fromEmail,
	}

	return &MailerSendService{
		client: client,
		from:   from,
	}
}

func (es *MailerSendService) SendOTPEmail(ctx context.Context, data OTPEmailData) error {
	subject := SubjectForPurpose(data.Purpose)
	html := renderOTPHTML(data)
	text := renderOTPText(data)

	recipients := []mailersend.Recipient{
		{
			Name:  data.Name,
			Email: data.Email,
		},
	}

	message := es.client.Email.NewMessage()
	message.SetFrom(es.from)
	message.SetRecipients(recipients)
	message.SetSubject(subject)
	message.SetHTML(html)
	message.SetText(text)

	// Set timeout context
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := es.client.Email.Send(ctx, message)
	if err != nil {
		log.Printf("Error sending OTP email to %s: %v", data.Email, err)
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	log.Printf("OTP email sent successfully to %s. Message ID: %s", data.Email, res.Header.Get("X-Message-Id"))
	return nil
}

func (es *MailerSendService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	subject := "Votre compte MISTRAL VOYAGE est activé"
	html := renderWelcomeHTML(name)
	text := renderWelcomeText(name)

	recipients := []mailersend.Recipient{
		{
			Name:  name,
			Email: email,
		},
	}

	message := es.client.Email.NewMessage()
	message.SetFrom(es.from)
	message.SetRecipients(recipients)
	message.SetSubject(subject)
	message.SetHTML(html)
	message.SetText(text)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := es.client.Email.Send(ctx, message)
	if err != nil {
		log.Printf("Error sending welcome email to %s: %v", email, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	log.Printf("Welcome email sent successfully to %s. Message ID: %s", email, res.Header.Get("X-Message-Id"))
	return nil
}
