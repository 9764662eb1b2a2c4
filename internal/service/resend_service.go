package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

type ResendService struct {
	client *resend.Client
	from   string
}

func NewResendService(apiKey, fromEmail string) *ResendService {
	client := resend.NewClient(apiKey)

	return &ResendService{
		client: client,
		from:   fromEmail,
	}
}

func (rs *ResendService) SendOTPEmail(ctx context.Context, data OTPEmailData) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "MISTRAL VOYAGE", rs.from),
		To:      []string{data.Email},
		Subject: SubjectForPurpose(data.Purpose),
		Html:    renderOTPHTML(data),
		Text:    renderOTPText(data),
	}

	res, err := rs.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("ResendService: Error sending OTP email to %s: %v", data.Email, err)
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	log.Printf("ResendService: OTP email sent successfully to %s. Message ID: %s", data.Email, res.Id)
	return nil
}

func (rs *ResendService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "MISTRAL VOYAGE", rs.from),
		To:      []string{email},
		Subject: "Votre compte MISTRAL VOYAGE est activé",
		Html:    renderWelcomeHTML(name),
		Text:    renderWelcomeText(name),
	}

	res, err := rs.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("ResendService: Error sending welcome email to %s: %v", email, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	log.Printf("ResendService: Welcome email sent successfully to %s. Message ID: %s", email, res.Id)
	return nil
}
