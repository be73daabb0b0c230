package config

import (
	"os"
	"time"
)

// TelegramConfig holds the notification channel settings.
type TelegramConfig struct {
	BotToken  string
	ChatID    string
	SendPause time.Duration
	ChunkSize int
}

// LoadTelegramConfig loads Telegram settings from environment variables.
func LoadTelegramConfig() *TelegramConfig {
	return &TelegramConfig{
		BotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:    os.Getenv("TELEGRAM_CHAT_ID"),
		SendPause: getEnvDuration("TELEGRAM_SEND_PAUSE", 1*time.Second),
		ChunkSize: getEnvInt("TELEGRAM_CHUNK_SIZE", 4000),
	}
}

// IsValid reports whether the configuration is complete enough to send.
func (c *TelegramConfig) IsValid() bool {
	return c.BotToken != "" && c.ChatID != ""
}
