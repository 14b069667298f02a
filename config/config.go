package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	SmsApiKey string
	SmsApiUrl string
	SmsSender string

	SendgridApiKey string
	EmailSender    string
	EmailName      string

	// In-progress quiz attempts older than this many hours get flagged
	// for instructor review by the background sweeper.
	StaleAttemptHours int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		SmsApiKey: getEnv("SMS_API_KEY", "defaultSecret"),
		SmsApiUrl: getEnv("SMS_API_URL", "https://www.fast2sms.com/dev/bulkV2"),
		SmsSender: getEnv("SMS_SENDER_ID", "LMSOTP"),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", "defaultSecret"),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@lms.local"),
		EmailName:      getEnv("EMAIL_SENDER_NAME", "LMS"),

		StaleAttemptHours: getEnvInt("STALE_ATTEMPT_HOURS", 24),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridApiKey == "defaultSecret" {
		log.Println("Warning: SENDGRID_API_KEY not set. Outgoing email will fail.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
