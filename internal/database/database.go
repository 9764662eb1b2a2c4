package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	cfg := config.GetConfig()

	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Create users table. Users are soft-deleted: deleted_at stays NULL
	// while the account is active and email uniqueness only applies to
	// active accounts.
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(150) NOT NULL,
		last_name VARCHAR(150) NOT NULL,
		phone VARCHAR(15) DEFAULT '',
		gender VARCHAR(1) DEFAULT '',
		photo_url VARCHAR(500),
		country VARCHAR(100) DEFAULT '',
		city VARCHAR(100) DEFAULT '',
		currency VARCHAR(100) DEFAULT '',
		email_verified BOOLEAN DEFAULT FALSE,
		is_online BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		deleted_at TIMESTAMP NULL
	);`

	activeEmailIndex := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_active_email
	ON users(email) WHERE deleted_at IS NULL;`

	// Create otp_codes table. At most one unexpired, unused code exists
	// per (user_id, purpose); issuing a new code deletes the old ones.
	otpCodesTable := `
	CREATE TABLE IF NOT EXISTS otp_codes (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		code CHAR(6) NOT NULL,
		purpose VARCHAR(20) NOT NULL CHECK (purpose IN ('register', 'login', 'reset')),
		is_used BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	otpUserPurposeIndex := `
	CREATE INDEX IF NOT EXISTS idx_otp_codes_user_purpose
	ON otp_codes(user_id, purpose, created_at DESC);`

	otpCodePurposeIndex := `
	CREATE INDEX IF NOT EXISTS idx_otp_codes_code_purpose
	ON otp_codes(code, purpose, created_at DESC);`

	tables := []string{
		usersTable,
		activeEmailIndex,
		otpCodesTable,
		otpUserPurposeIndex,
		otpCodePurposeIndex,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
