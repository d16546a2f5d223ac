package config

import "os"

// CredentialsFile is the fixed path of the Google service account key. It is
// deliberately not environment-driven.
const CredentialsFile = "credentials.json"

// Config holds all application configuration
type Config struct {
	Token           string // Telegram bot token
	SpreadsheetName string // display name of the target spreadsheet
	DriveFolderID   string // optional; empty means upload to the Drive root
	DatabaseURL     string // optional Postgres archive
	Port            string // health endpoint port
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Token:           getEnv("TOKEN", ""),
		SpreadsheetName: getEnv("SPREADSHEET_NAME", ""),
		DriveFolderID:   getEnv("DRIVE_FOLDER_ID", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Port:            getEnv("PORT", "8080"),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
