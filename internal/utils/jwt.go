package utils

import (
	"fmt"
	"time"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the credential pair returned on successful flow
// completion: a short-lived access token and a longer-lived refresh
// token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateTokenPair issues access and refresh tokens for a verified
// user identity.
func GenerateTokenPair(userID uuid.UUID, email string) (*TokenPair, error) {
	cfg := config.GetConfig()

	accessTTL, err := time.ParseDuration(cfg.JWT.AccessExpiry)
	if err != nil {
		accessTTL = time.Hour
	}
	refreshTTL, err := time.ParseDuration(cfg.JWT.RefreshExpiry)
	if err != nil {
		refreshTTL = 24 * time.Hour
	}

	access, err := generateToken(userID, email, TokenTypeAccess, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := generateToken(userID, email, TokenTypeRefresh, refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func generateToken(userID uuid.UUID, email, tokenType string, ttl time.Duration) (string, error) {
	cfg := config.GetConfig()
	now := time.Now()

	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT parses and verifies a token of any type.
func ValidateJWT(tokenString string) (*Claims, error) {
	cfg := config.GetConfig()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ValidateAccessToken verifies a token and requires the access type.
func ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, fmt.Errorf("token is not an access token")
	}
	return claims, nil
}

// ValidateRefreshToken verifies a token and requires the refresh type.
func ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}
	return claims, nil
}
