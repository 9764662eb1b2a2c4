package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	err      error
	otpCalls int
}

func (s *stubProvider) SendOTPEmail(ctx context.Context, data OTPEmailData) error {
	s.otpCalls++
	return s.err
}

func (s *stubProvider) SendWelcomeEmail(ctx context.Context, email, name string) error {
	return s.err
}

func TestSendOTPEmailFallsBackToNextProvider(t *testing.T) {
	primary := &stubProvider{err: errors.New("rate limited")}
	secondary := &stubProvider{}
	svc := NewMultiProviderEmailService([]EmailProvider{primary, secondary})

	err := svc.SendOTPEmail(context.Background(), OTPEmailData{Email: "alice@x.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.otpCalls)
	assert.Equal(t, 1, secondary.otpCalls)
}

func TestSendOTPEmailStopsAtFirstSuccess(t *testing.T) {
	primary := &stubProvider{}
	secondary := &stubProvider{}
	svc := NewMultiProviderEmailService([]EmailProvider{primary, secondary})

	require.NoError(t, svc.SendOTPEmail(context.Background(), OTPEmailData{Email: "alice@x.com"}))
	assert.Equal(t, 1, primary.otpCalls)
	assert.Equal(t, 0, secondary.otpCalls)
}

func TestSendOTPEmailAllProvidersFail(t *testing.T) {
	failure := errors.New("smtp down")
	svc := NewMultiProviderEmailService([]EmailProvider{
		&stubProvider{err: errors.New("rate limited")},
		&stubProvider{err: failure},
	})

	err := svc.SendOTPEmail(context.Background(), OTPEmailData{Email: "alice@x.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
}

func TestSendOTPEmailNoProviders(t *testing.T) {
	svc := NewMultiProviderEmailService(nil)
	assert.Error(t, svc.SendOTPEmail(context.Background(), OTPEmailData{Email: "alice@x.com"}))
	assert.Equal(t, 0, svc.GetProviderCount())
}

func TestSubjectForPurpose(t *testing.T) {
	assert.Equal(t, "Bienvenue sur MISTRAL VOYAGE", SubjectForPurpose(models.PurposeRegister))
	assert.Equal(t, "Connexion à votre compte MISTRAL VOYAGE", SubjectForPurpose(models.PurposeLogin))
	assert.Equal(t, "Réinitialisation de votre mot de passe MISTRAL VOYAGE", SubjectForPurpose(models.PurposeReset))
	assert.Equal(t, "Votre code de vérification MISTRAL VOYAGE", SubjectForPurpose("unknown"))
}

func TestRenderedOTPEmailContainsCode(t *testing.T) {
	data := OTPEmailData{
		Email:     "alice@x.com",
		Name:      "Alice",
		OTPCode:   "042137",
		Purpose:   models.PurposeRegister,
		ExpiresIn: 15,
	}

	html := renderOTPHTML(data)
	assert.Contains(t, html, "042137")
	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "15")

	text := renderOTPText(data)
	assert.Contains(t, text, "042137")
	assert.Contains(t, text, "Alice")
}
