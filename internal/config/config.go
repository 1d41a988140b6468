package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI string

	// Reminder scan tuning
	BufferMinutes int           // how far ahead a reminder becomes eligible
	ScanInterval  time.Duration // period between scan cycles

	// Email channel
	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// SMS channel
	SMSGatewayURL string

	// App-notification channel
	TelegramToken string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		BufferMinutes: getEnvInt("REMINDER_BUFFER_MINUTES", 10),
		ScanInterval:  time.Duration(getEnvInt("SCAN_INTERVAL_SECONDS", 60)) * time.Second,
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPFrom:      getEnvOrDefault("SMTP_FROM", "reminders@daykeeper.local"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMSGatewayURL: os.Getenv("SMS_GATEWAY_URL"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
