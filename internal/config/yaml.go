package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Server   ServerConfig   `yaml:"server"`
	Email    EmailConfig    `yaml:"email"`
	OTP      OTPConfig      `yaml:"otp"`
	Amadeus  AmadeusConfig  `yaml:"amadeus"`
	Geo      GeoConfig      `yaml:"geo"`
	Security SecurityConfig `yaml:"security"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	AccessExpiry  string `yaml:"access_expiry"`
	RefreshExpiry string `yaml:"refresh_expiry"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type EmailConfig struct {
	MailerSend MailerSendConfig `yaml:"mailersend"`
	Resend     ResendConfig     `yaml:"resend"`
}

type MailerSendConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type ResendConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
}

type OTPConfig struct {
	// ValidityWindowSeconds is how long an issued code stays usable.
	// It also drives the resend cooldown: a new code cannot be requested
	// while the previous one is still inside this window.
	ValidityWindowSeconds int `yaml:"validity_window_seconds"`
}

type AmadeusConfig struct {
	Enabled      bool   `yaml:"enabled"`
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type GeoConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

type SecurityConfig struct {
	BCryptCost int `yaml:"bcrypt_cost"`
}

var AppConfig *Config

func LoadConfig() error {
	// Try to find config file in different locations
	configPaths := []string{
		"secret/app.yaml",
		"app.yaml",
		"config/app.yaml",
		"./app.yaml",
	}

	var configPath string
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			configPath = path
			break
		}
	}

	if configPath == "" {
		return fmt.Errorf("config file not found in any of the expected locations: %v", configPaths)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", configPath, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %v", err)
	}

	// Set default values if not specified
	setDefaults(config)

	AppConfig = config
	return nil
}

func setDefaults(config *Config) {
	// Database defaults
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Database.User == "" {
		config.Database.User = "mistral_user"
	}
	if config.Database.Password == "" {
		config.Database.Password = "mistral_password"
	}
	if config.Database.Name == "" {
		config.Database.Name = "mistral_db"
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = "disable"
	}

	// JWT defaults
	if config.JWT.Secret == "" {
		config.JWT.Secret = "mistral-voyage-jwt-secret-change-in-production"
	}
	if config.JWT.AccessExpiry == "" {
		config.JWT.AccessExpiry = "1h"
	}
	if config.JWT.RefreshExpiry == "" {
		config.JWT.RefreshExpiry = "24h"
	}

	// Server defaults
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{"http://localhost:3000"}
	}

	// Email defaults
	if config.Email.MailerSend.FromName == "" {
		config.Email.MailerSend.FromName = "MISTRAL VOYAGE"
	}
	if config.Email.MailerSend.FromEmail == "" {
		config.Email.MailerSend.FromEmail = "contact@mistralvoyage.com"
	}
	if config.Email.Resend.FromEmail == "" {
		config.Email.Resend.FromEmail = "contact@mistralvoyage.com"
	}

	// OTP defaults. Earlier deployments ran 60s and 120s windows; 900s is
	// the value the product settled on.
	if config.OTP.ValidityWindowSeconds == 0 {
		config.OTP.ValidityWindowSeconds = 900
	}

	// Amadeus defaults (self-service test environment)
	if config.Amadeus.BaseURL == "" {
		config.Amadeus.BaseURL = "https://test.api.amadeus.com"
	}

	// Geolocation defaults
	if config.Geo.BaseURL == "" {
		config.Geo.BaseURL = "http://ip-api.com"
	}

	// Security defaults
	if config.Security.BCryptCost == 0 {
		config.Security.BCryptCost = 12
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		// Try to load config if not already loaded
		if err := LoadConfig(); err != nil {
			// If loading fails, create a default config
			config := &Config{}
			setDefaults(config)
			AppConfig = config
		}
	}
	return AppConfig
}

// OTPValidityWindow returns the configured validity window as a duration.
func (c *Config) OTPValidityWindow() time.Duration {
	return time.Duration(c.OTP.ValidityWindowSeconds) * time.Second
}
