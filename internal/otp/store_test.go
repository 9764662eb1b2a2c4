package otp

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, 900*time.Second), mock
}

func otpRows(code *models.OTPCode) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "code", "purpose", "is_used", "created_at"}).
		AddRow(code.ID, code.UserID, code.Code, code.Purpose, code.IsUsed, code.CreatedAt)
}

func TestIssueSupersedesPriorCodes(t *testing.T) {
	store, mock := newMockStore(t)
	userID := uuid.New()

	// Old codes for the pair are deleted before the new one is written
	mock.ExpectExec("DELETE FROM otp_codes").
		WithArgs(userID, models.PurposeRegister).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO otp_codes").
		WithArgs(sqlmock.AnyArg(), userID, sqlmock.AnyArg(), models.PurposeRegister, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	code, err := store.Issue(userID, models.PurposeRegister)
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)
	assert.Equal(t, userID, code.UserID)
	assert.Equal(t, models.PurposeRegister, code.Purpose)
	assert.False(t, code.IsUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssuePropagatesStorageFailure(t *testing.T) {
	store, mock := newMockStore(t)
	userID := uuid.New()

	mock.ExpectExec("DELETE FROM otp_codes").
		WithArgs(userID, models.PurposeLogin).
		WillReturnError(sql.ErrConnDone)

	_, err := store.Issue(userID, models.PurposeLogin)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLatestByUser(t *testing.T) {
	store, mock := newMockStore(t)
	want := &models.OTPCode{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Code:      "042137",
		Purpose:   models.PurposeRegister,
		IsUsed:    false,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectQuery("FROM otp_codes WHERE user_id").
		WithArgs(want.UserID, models.PurposeRegister).
		WillReturnRows(otpRows(want))

	got, err := store.FindLatestByUser(want.UserID, models.PurposeRegister)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Code, got.Code)
}

func TestFindLatestByUserNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	userID := uuid.New()

	mock.ExpectQuery("FROM otp_codes WHERE user_id").
		WithArgs(userID, models.PurposeReset).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "code", "purpose", "is_used", "created_at"}))

	_, err := store.FindLatestByUser(userID, models.PurposeReset)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestFindLatestByCode(t *testing.T) {
	store, mock := newMockStore(t)
	want := &models.OTPCode{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Code:      "774201",
		Purpose:   models.PurposeLogin,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectQuery("FROM otp_codes WHERE code").
		WithArgs("774201", models.PurposeLogin).
		WillReturnRows(otpRows(want))

	got, err := store.FindLatestByCode("774201", models.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, want.UserID, got.UserID)
}

func TestConsumeWinsOnce(t *testing.T) {
	store, mock := newMockStore(t)
	codeID := uuid.New()

	// First consumer flips the row, the second finds nothing to flip
	mock.ExpectExec("UPDATE otp_codes SET is_used = TRUE").
		WithArgs(codeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE otp_codes SET is_used = TRUE").
		WithArgs(codeID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Consume(codeID))
	assert.ErrorIs(t, store.Consume(codeID), ErrCodeUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsValidUsesConfiguredWindow(t *testing.T) {
	store, _ := newMockStore(t)

	fresh := &models.OTPCode{CreatedAt: time.Now().UTC().Add(-time.Minute)}
	stale := &models.OTPCode{CreatedAt: time.Now().UTC().Add(-901 * time.Second)}
	used := &models.OTPCode{IsUsed: true, CreatedAt: time.Now().UTC()}

	assert.True(t, store.IsValid(fresh))
	assert.False(t, store.IsValid(stale))
	assert.False(t, store.IsValid(used))
	assert.Equal(t, 900*time.Second, store.Window())
}
