package otp

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/database"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrCodeNotFound is returned when no code matches the lookup key.
	ErrCodeNotFound = errors.New("otp code not found")
	// ErrCodeUsed is returned by Consume when the code was already
	// consumed by another request.
	ErrCodeUsed = errors.New("otp code already used")
)

// Store manages the lifecycle of one-time codes per (user, purpose).
type Store struct {
	db     database.Database
	window time.Duration
}

func NewStore(db database.Database, window time.Duration) *Store {
	return &Store{db: db, window: window}
}

// Window returns the configured validity window.
func (s *Store) Window() time.Duration {
	return s.window
}

// Issue replaces any existing codes for (user, purpose) with a freshly
// generated one. The delete-then-insert keeps the invariant of at most
// one live code per pair; superseded codes are gone, not archived.
func (s *Store) Issue(userID uuid.UUID, purpose string) (*models.OTPCode, error) {
	_, err := s.db.Exec(`
		DELETE FROM otp_codes WHERE user_id = $1 AND purpose = $2
	`, userID, purpose)
	if err != nil {
		return nil, fmt.Errorf("failed to delete superseded codes: %w", err)
	}

	code, err := GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	record := &models.OTPCode{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		IsUsed:    false,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.Exec(`
		INSERT INTO otp_codes (id, user_id, code, purpose, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.UserID, record.Code, record.Purpose, record.IsUsed, record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save code: %w", err)
	}

	return record, nil
}

// FindLatestByUser returns the most recent code for (user, purpose),
// valid or not.
func (s *Store) FindLatestByUser(userID uuid.UUID, purpose string) (*models.OTPCode, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, code, purpose, is_used, created_at
		FROM otp_codes
		WHERE user_id = $1 AND purpose = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, purpose)
	return scanOTP(row)
}

// FindLatestByCode looks a code up by its bare value. Used by login
// completion, where the client does not resubmit its identifier and the
// code value alone acts as the bearer credential for that step.
func (s *Store) FindLatestByCode(code, purpose string) (*models.OTPCode, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, code, purpose, is_used, created_at
		FROM otp_codes
		WHERE code = $1 AND purpose = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, code, purpose)
	return scanOTP(row)
}

// FindLatestUnused returns the most recent unconsumed code for
// (user, purpose). The resend cooldown is computed against it.
func (s *Store) FindLatestUnused(userID uuid.UUID, purpose string) (*models.OTPCode, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, code, purpose, is_used, created_at
		FROM otp_codes
		WHERE user_id = $1 AND purpose = $2 AND is_used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, purpose)
	return scanOTP(row)
}

// IsValid reports whether the code can be consumed right now.
func (s *Store) IsValid(code *models.OTPCode) bool {
	return code.IsValid(time.Now().UTC(), s.window)
}

// Consume marks the code used. The conditional update is the atomic
// gate against concurrent verifications: of N requests racing on the
// same still-valid code, exactly one sees a row updated and the rest
// get ErrCodeUsed.
func (s *Store) Consume(id uuid.UUID) error {
	result, err := s.db.Exec(`
		UPDATE otp_codes SET is_used = TRUE WHERE id = $1 AND is_used = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}
	if affected == 0 {
		return ErrCodeUsed
	}
	return nil
}

func scanOTP(row *sql.Row) (*models.OTPCode, error) {
	var code models.OTPCode
	err := row.Scan(&code.ID, &code.UserID, &code.Code, &code.Purpose, &code.IsUsed, &code.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}
