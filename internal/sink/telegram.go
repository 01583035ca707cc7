package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"timesrelay/internal/domain"
)

// Telegram caps message text at 4096 characters.
const telegramMaxMsgLen = 4096

// TelegramChat delivers messages to one Telegram chat through a bot token.
// Telegram has no sender-identity override and no embed concept, so embeds
// are rendered as trailing text lines. Implements domain.WebhookSink.
type TelegramChat struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// NewTelegramChat authenticates the bot and builds the sink.
func NewTelegramChat(token string, chatID int64, logger *slog.Logger) (*TelegramChat, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	logger.Info("telegram sink ready", "bot", bot.Self.UserName, "chat_id", chatID)
	return &TelegramChat{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *TelegramChat) Deliver(ctx context.Context, content string, sender domain.Sender, embeds []domain.Embed) error {
	text := flattenEmbeds(content, embeds)
	for _, chunk := range splitMessage(text, telegramMaxMsgLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(t.chatID, chunk)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

func flattenEmbeds(content string, embeds []domain.Embed) string {
	text := content
	for _, e := range embeds {
		var lines []string
		if e.AuthorName != "" {
			lines = append(lines, e.AuthorName)
		}
		if e.Description != "" {
			lines = append(lines, e.Description)
		}
		if e.ImageURL != "" {
			lines = append(lines, e.ImageURL)
		}
		if len(lines) > 0 {
			text += "\n\n" + strings.Join(lines, "\n")
		}
	}
	return text
}
