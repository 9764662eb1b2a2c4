package service

import (
	"context"
	"fmt"
	"log"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/models"
)

// OTPEmailData carries everything a provider needs to render and send a
// one-time code email.
type OTPEmailData struct {
	Email     string
	Name      string
	OTPCode   string
	Purpose   string
	ExpiresIn int // in minutes
}

// EmailProvider interface for different email services
type EmailProvider interface {
	SendOTPEmail(ctx context.Context, data OTPEmailData) error
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

// Subject and intro lines per OTP purpose. Immutable: adding a purpose
// means adding entries here, not another branch in a handler.
var otpSubjects = map[string]string{
	models.PurposeRegister: "Bienvenue sur MISTRAL VOYAGE",
	models.PurposeLogin:    "Connexion à votre compte MISTRAL VOYAGE",
	models.PurposeReset:    "Réinitialisation de votre mot de passe MISTRAL VOYAGE",
}

var otpIntros = map[string]string{
	models.PurposeRegister: "Merci de vous être inscrit sur MISTRAL VOYAGE ! Pour finaliser votre inscription, utilisez le code de vérification suivant :",
	models.PurposeLogin:    "Une connexion à votre compte a été demandée. Utilisez le code de vérification suivant pour continuer :",
	models.PurposeReset:    "Une réinitialisation de votre mot de passe a été demandée. Utilisez le code de vérification suivant :",
}

// SubjectForPurpose returns the email subject for an OTP purpose.
func SubjectForPurpose(purpose string) string {
	if subject, ok := otpSubjects[purpose]; ok {
		return subject
	}
	return "Votre code de vérification MISTRAL VOYAGE"
}

// IntroForPurpose returns the email body introduction for an OTP purpose.
func IntroForPurpose(purpose string) string {
	if intro, ok := otpIntros[purpose]; ok {
		return intro
	}
	return "Utilisez le code de vérification suivant :"
}

// MultiProviderEmailService handles multiple email providers with fallback
type MultiProviderEmailService struct {
	providers []EmailProvider
}

// NewMultiProviderEmailService creates a new multi-provider email service
func NewMultiProviderEmailService(providers []EmailProvider) *MultiProviderEmailService {
	return &MultiProviderEmailService{providers: providers}
}

// NewEmailServiceFromConfig builds the provider chain from configuration.
// The first enabled provider is primary, the rest are fallbacks.
func NewEmailServiceFromConfig(cfg *config.Config) *MultiProviderEmailService {
	var providers []EmailProvider

	if cfg.Email.MailerSend.Enabled {
		providers = append(providers, NewMailerSendService(
			cfg.Email.MailerSend.APIKey,
			cfg.Email.MailerSend.FromEmail,
			cfg.Email.MailerSend.FromName,
		))
	}
	if cfg.Email.Resend.Enabled {
		providers = append(providers, NewResendService(
			cfg.Email.Resend.APIKey,
			cfg.Email.Resend.FromEmail,
		))
	}

	log.Printf("Email service initialized with %d providers", len(providers))
	return NewMultiProviderEmailService(providers)
}

// SendOTPEmail tries to send OTP email using available providers
func (m *MultiProviderEmailService) SendOTPEmail(ctx context.Context, data OTPEmailData) error {
	if len(m.providers) == 0 {
		return fmt.Errorf("no email providers configured")
	}

	var lastErr error
	for i, provider := range m.providers {
		err := provider.SendOTPEmail(ctx, data)
		if err == nil {
			return nil
		}
		log.Printf("Email provider %d failed to send OTP email: %v", i+1, err)
		lastErr = err
	}

	return fmt.Errorf("all email providers failed. Last error: %w", lastErr)
}

// SendWelcomeEmail tries to send welcome email using available providers
func (m *MultiProviderEmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	if len(m.providers) == 0 {
		return fmt.Errorf("no email providers configured")
	}

	var lastErr error
	for i, provider := range m.providers {
		err := provider.SendWelcomeEmail(ctx, email, name)
		if err == nil {
			return nil
		}
		log.Printf("Email provider %d failed to send welcome email: %v", i+1, err)
		lastErr = err
	}

	return fmt.Errorf("all email providers failed. Last error: %w", lastErr)
}

// GetProviderCount returns the number of configured providers
func (m *MultiProviderEmailService) GetProviderCount() int {
	return len(m.providers)
}
