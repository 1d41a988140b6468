package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tmajors/daykeeper/internal/models"
)

// TelegramSender delivers the app-notification channel through a Telegram
// bot. Bold/code Markdown in the body is converted to message entities.
type TelegramSender struct {
	api *tgbotapi.BotAPI
}

func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	return &TelegramSender{api: api}
}

func (t *TelegramSender) Send(ctx context.Context, to models.Contact, subject, body string) error {
	if to.ChatID == 0 {
		return fmt.Errorf("contact has no chat id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	parsed := ParseMarkdown("⏰ **" + subject + "**\n\n" + body)
	msg := tgbotapi.NewMessage(to.ChatID, parsed.Text)
	msg.Entities = parsed.Entities

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send to chat %d failed: %w", to.ChatID, err)
	}
	return nil
}
