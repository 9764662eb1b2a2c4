package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Username      string     `json:"username" db:"username"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	FirstName     string     `json:"first_name" db:"first_name"`
	LastName      string     `json:"last_name" db:"last_name"`
	Phone         string     `json:"phone" db:"phone"`
	Gender        string     `json:"gender" db:"gender"`
	PhotoURL      *string    `json:"photos" db:"photo_url"`
	Country       string     `json:"pays" db:"country"`
	City          string     `json:"ville" db:"city"`
	Currency      string     `json:"currency" db:"currency"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	IsOnline      bool       `json:"is_online" db:"is_online"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"-" db:"deleted_at"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Password2 string `json:"password2" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone" binding:"omitempty,max=15"`
	Gender    string `json:"gender" binding:"omitempty,oneof=H F A"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type LoginInitiateRequest struct {
	// Identifier may be a username or an email; an email is recognized
	// by the presence of "@".
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LoginCompleteRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetCompleteRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Code      string `json:"code" binding:"required,len=6"`
	Password  string `json:"password" binding:"required,min=6"`
	Password2 string `json:"password2" binding:"required"`
}

type ResendOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required,oneof=register login reset"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	PhotoURL  *string   `json:"photos"`
	Country   string    `json:"pays"`
	City      string    `json:"ville"`
	Currency  string    `json:"currency"`
}

// NewUserResponse builds the public view of a user record.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Gender:    u.Gender,
		PhotoURL:  u.PhotoURL,
		Country:   u.Country,
		City:      u.City,
		Currency:  u.Currency,
	}
}
