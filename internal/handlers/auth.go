package handlers

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/database"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/models"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/otp"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/service"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, gender, photo_url, country, city, currency, email_verified, is_online, created_at, updated_at`

// AuthHandler orchestrates registration, login, password reset and
// resend as multi-step flows. It holds no per-request state: everything
// lives in the users and otp_codes tables.
type AuthHandler struct {
	db    database.Database
	otps  *otp.Store
	email service.EmailProvider
	geo   *service.GeoService
}

func NewAuthHandler(db database.Database, otps *otp.Store, email service.EmailProvider, geo *service.GeoService) *AuthHandler {
	return &AuthHandler{
		db:    db,
		otps:  otps,
		email: email,
		geo:   geo,
	}
}

// Register creates an unverified user and dispatches a registration
// code to their email.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Password != req.Password2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	// Check if an active user already holds this email
	var existingID uuid.UUID
	err := h.db.QueryRow(`
		SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL
	`, req.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user with this email already exists"})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("Register: failed to check existing email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	cfg := config.GetConfig()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), cfg.Security.BCryptCost)
	if err != nil {
		log.Printf("Register: failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	username, err := h.deriveUsername(req.FirstName)
	if err != nil {
		log.Printf("Register: failed to derive username: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Gender:    req.Gender,
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, phone, gender, email_verified, is_online, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, FALSE, $9, $10)
	`, user.ID, user.Username, user.Email, string(hashedPassword), user.FirstName, user.LastName, user.Phone, user.Gender, now, now)
	if err != nil {
		log.Printf("Register: failed to insert user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Best-effort geolocation backfill, never blocks registration
	h.backfillGeolocation(c, user.ID)

	if err := h.dispatchOTP(c.Request.Context(), user, models.PurposeRegister); err != nil {
		log.Printf("Register: failed to dispatch verification code to %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully. A verification code has been sent to your email.",
	})
}

// VerifyEmail completes registration: validates the code, flips
// email_verified and issues the credential pair.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.findUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("VerifyEmail: failed to load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	if err := h.validateAndConsume(user.ID, models.PurposeRegister, req.Code); err != nil {
		h.respondCodeError(c, err, "VerifyEmail")
		return
	}

	_, err = h.db.Exec(`
		UPDATE users SET email_verified = TRUE, updated_at = $1 WHERE id = $2
	`, time.Now(), user.ID)
	if err != nil {
		log.Printf("VerifyEmail: failed to mark email verified: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}
	user.EmailVerified = true

	// Welcome email is best-effort, verification already succeeded
	if err := h.email.SendWelcomeEmail(c.Request.Context(), user.Email, user.FirstName); err != nil {
		log.Printf("VerifyEmail: failed to send welcome email to %s: %v", user.Email, err)
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		log.Printf("VerifyEmail: failed to generate tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully.",
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user":    models.NewUserResponse(user),
	})
}

// LoginInitiate authenticates the primary credential and, for verified
// users only, dispatches a login code.
func (h *AuthHandler) LoginInitiate(c *gin.Context) {
	var req models.LoginInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authenticate(req.Identifier, req.Password)
	if err != nil {
		// Uniform message whether the identifier or the password was
		// wrong, to avoid user enumeration
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// An unverified user must never receive a login code
	if !user.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not verified. Please verify your email first."})
		return
	}

	if err := h.dispatchOTP(c.Request.Context(), user, models.PurposeLogin); err != nil {
		log.Printf("LoginInitiate: failed to dispatch login code to %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A verification code has been sent to your email.",
	})
}

// LoginComplete validates the second-factor code submitted on its own.
// The code value is looked up bare, without the identifier: for this
// one step it acts as a bearer credential. Deliberate trade-off, kept
// from the original design.
func (h *AuthHandler) LoginComplete(c *gin.Context) {
	var req models.LoginCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.otps.FindLatestByCode(req.Code, models.PurposeLogin)
	if err != nil {
		if errors.Is(err, otp.ErrCodeNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
			return
		}
		log.Printf("LoginComplete: failed to look up code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if !h.otps.IsValid(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	if err := h.otps.Consume(code.ID); err != nil {
		if errors.Is(err, otp.ErrCodeUsed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
			return
		}
		log.Printf("LoginComplete: failed to consume code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	user, err := h.findUserByID(code.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("LoginComplete: failed to load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	// Defensive re-check: the flag could have changed since initiate
	if !user.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not verified. Please verify your email first."})
		return
	}

	if _, err := h.db.Exec(`
		UPDATE users SET is_online = TRUE, updated_at = $1 WHERE id = $2
	`, time.Now(), user.ID); err != nil {
		log.Printf("LoginComplete: failed to mark user online: %v", err)
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		log.Printf("LoginComplete: failed to generate tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user":    models.NewUserResponse(user),
	})
}

// RequestPasswordReset dispatches a reset code. Unknown emails get an
// explicit 404: this leaks account existence and is inconsistent with
// the login flow's uniform failure, but it is the documented contract.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.findUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No account is associated with this email."})
			return
		}
		log.Printf("RequestPasswordReset: failed to load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	if err := h.dispatchOTP(c.Request.Context(), user, models.PurposeReset); err != nil {
		log.Printf("RequestPasswordReset: failed to dispatch reset code to %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A reset code has been sent to your email.",
	})
}

// CompletePasswordReset validates the reset code and overwrites the
// stored password hash.
func (h *AuthHandler) CompletePasswordReset(c *gin.Context) {
	var req models.PasswordResetCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Confirmation mismatch fails before any code lookup
	if req.Password != req.Password2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	user, err := h.findUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("CompletePasswordReset: failed to load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	if err := h.validateAndConsume(user.ID, models.PurposeReset, req.Code); err != nil {
		h.respondCodeError(c, err, "CompletePasswordReset")
		return
	}

	cfg := config.GetConfig()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), cfg.Security.BCryptCost)
	if err != nil {
		log.Printf("CompletePasswordReset: failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	_, err = h.db.Exec(`
		UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3
	`, string(hashedPassword), time.Now(), user.ID)
	if err != nil {
		log.Printf("CompletePasswordReset: failed to update password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successfully.",
	})
}

// ResendOTP issues a fresh code for any purpose, unless the previous
// one is still inside its validity window.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req models.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.findUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No account is associated with this email."})
			return
		}
		log.Printf("ResendOTP: failed to load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend code"})
		return
	}

	last, err := h.otps.FindLatestUnused(user.ID, req.Purpose)
	if err != nil && !errors.Is(err, otp.ErrCodeNotFound) {
		log.Printf("ResendOTP: failed to look up previous code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend code"})
		return
	}

	if last != nil && h.otps.IsValid(last) {
		remaining := int(last.RemainingCooldown(time.Now().UTC(), h.otps.Window()).Seconds())
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("The previous code is still valid. Please wait %d seconds before requesting a new one.", remaining),
			"retry_after": remaining,
		})
		return
	}

	if err := h.dispatchOTP(c.Request.Context(), user, req.Purpose); err != nil {
		log.Printf("ResendOTP: failed to dispatch code to %s: %v", user.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A new verification code has been sent to your email.",
	})
}

// RefreshToken exchanges a refresh token for a fresh credential pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateRefreshToken(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	user, err := h.findUserByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		log.Printf("RefreshToken: failed to generate tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

// GetProfile returns the authenticated user's record.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.findUserByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": models.NewUserResponse(user)})
}

// Logout clears the online flag. The original design did this through
// framework login/logout signals; here it is an explicit update at the
// token boundary.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.db.Exec(`
		UPDATE users SET is_online = FALSE, updated_at = $1 WHERE id = $2
	`, time.Now(), id); err != nil {
		log.Printf("Logout: failed to mark user offline: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// authenticate resolves the identifier (email when it contains "@",
// username otherwise) and checks the password hash.
func (h *AuthHandler) authenticate(identifier, password string) (*models.User, error) {
	var user *models.User
	var err error

	if strings.Contains(identifier, "@") {
		user, err = h.findUserByEmail(identifier)
	} else {
		user, err = h.findUserByUsername(identifier)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return user, nil
}

// validateAndConsume checks the submitted code value against the latest
// code for (user, purpose) and consumes it. Consume is the atomic step:
// of two concurrent verifications exactly one passes.
func (h *AuthHandler) validateAndConsume(userID uuid.UUID, purpose, submitted string) error {
	code, err := h.otps.FindLatestByUser(userID, purpose)
	if err != nil {
		return err
	}
	if code.Code != submitted || !h.otps.IsValid(code) {
		return otp.ErrCodeNotFound
	}
	return h.otps.Consume(code.ID)
}

func (h *AuthHandler) respondCodeError(c *gin.Context, err error, flow string) {
	// Expired, used, superseded and never-issued all collapse into one
	// generic client message
	if errors.Is(err, otp.ErrCodeNotFound) || errors.Is(err, otp.ErrCodeUsed) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}
	log.Printf("%s: code validation failed: %v", flow, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
}

// dispatchOTP issues a fresh code and emails it. A dispatch failure
// fails the whole step: the code is not considered sent.
func (h *AuthHandler) dispatchOTP(ctx context.Context, user *models.User, purpose string) error {
	code, err := h.otps.Issue(user.ID, purpose)
	if err != nil {
		return err
	}

	data := service.OTPEmailData{
		Email:     user.Email,
		Name:      user.FirstName,
		OTPCode:   code.Code,
		Purpose:   purpose,
		ExpiresIn: int(h.otps.Window().Minutes()),
	}
	if err := h.email.SendOTPEmail(ctx, data); err != nil {
		return fmt.Errorf("failed to dispatch otp email: %w", err)
	}
	return nil
}

// deriveUsername builds a username from the first name plus two random
// digits, retried until unique. After too many collisions the suffix
// widens to six digits.
func (h *AuthHandler) deriveUsername(firstName string) (string, error) {
	base := strings.ReplaceAll(strings.TrimSpace(firstName), " ", "")

	for attempt := 0; attempt < 50; attempt++ {
		digits := 2
		if attempt >= 25 {
			digits = 6
		}
		suffix, err := randomDigits(digits)
		if err != nil {
			return "", err
		}
		candidate := base + suffix

		var existingID uuid.UUID
		err = h.db.QueryRow(`
			SELECT id FROM users WHERE username = $1 AND deleted_at IS NULL
		`, candidate).Scan(&existingID)
		if errors.Is(err, sql.ErrNoRows) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("could not derive a unique username for %q", firstName)
}

func randomDigits(n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%d", d.Int64())
	}
	return sb.String(), nil
}

// backfillGeolocation fills country/city/currency from the client IP
// when the geolocation collaborator is configured.
func (h *AuthHandler) backfillGeolocation(c *gin.Context, userID uuid.UUID) {
	if h.geo == nil {
		return
	}

	info, err := h.geo.Lookup(c.Request.Context(), c.ClientIP())
	if err != nil {
		log.Printf("Register: geolocation lookup failed: %v", err)
		return
	}

	if _, err := h.db.Exec(`
		UPDATE users SET country = $1, city = $2, currency = $3, updated_at = $4 WHERE id = $5
	`, info.Country, info.City, info.Currency, time.Now(), userID); err != nil {
		log.Printf("Register: failed to store geolocation: %v", err)
	}
}

func (h *AuthHandler) findUserByEmail(email string) (*models.User, error) {
	row := h.db.QueryRow(`
		SELECT `+userColumns+`
		FROM users WHERE email = $1 AND deleted_at IS NULL
	`, email)
	return scanUser(row)
}

func (h *AuthHandler) findUserByUsername(username string) (*models.User, error) {
	row := h.db.QueryRow(`
		SELECT `+userColumns+`
		FROM users WHERE username = $1 AND deleted_at IS NULL
	`, username)
	return scanUser(row)
}

func (h *AuthHandler) findUserByID(id uuid.UUID) (*models.User, error) {
	row := h.db.QueryRow(`
		SELECT `+userColumns+`
		FROM users WHERE id = $1 AND deleted_at IS NULL
	`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Phone, &user.Gender,
		&user.PhotoURL, &user.Country, &user.City, &user.Currency,
		&user.EmailVerified, &user.IsOnline, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
