package notifier

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"dealscout/config"
)

// Telegram sends result messages to a single chat. Consecutive sends are
// spaced by a rate limiter so chunked messages do not hit the Bot API flood
// limits. Send failures are reported, never retried.
type Telegram struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	limiter    *rate.Limiter
	chunkLimit int
}

// NewTelegram connects to the Bot API with the configured token and chat.
func NewTelegram(cfg *config.TelegramConfig) (*Telegram, error) {
	if !cfg.IsValid() {
		return nil, fmt.Errorf("telegram bot token and chat id are required")
	}

	chatID, err := strconv.ParseInt(cfg.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", cfg.ChatID, err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Printf("Telegram bot authorized as @%s", bot.Self.UserName)

	return &Telegram{
		bot:        bot,
		chatID:     chatID,
		limiter:    rate.NewLimiter(rate.Every(cfg.SendPause), 1),
		chunkLimit: cfg.ChunkSize,
	}, nil
}

// ChunkLimit returns the maximum message size this channel accepts.
func (t *Telegram) ChunkLimit() int {
	return t.chunkLimit
}

// Send delivers one message and reports whether it was accepted. The text is
// parsed as HTML; link previews are suppressed so result lists stay compact.
func (t *Telegram) Send(ctx context.Context, text string) bool {
	if err := t.limiter.Wait(ctx); err != nil {
		return false
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("Warning: telegram send failed: %v", err)
		return false
	}
	return true
}

// SendChunks delivers a chunked message set in order and reports how many
// chunks were accepted. A failed chunk does not stop the rest.
func (t *Telegram) SendChunks(ctx context.Context, chunks []string) int {
	sent := 0
	for _, chunk := range chunks {
		if ctx.Err() != nil {
			return sent
		}
		if t.Send(ctx, chunk) {
			sent++
		}
	}
	return sent
}
