package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// FormatStatus renders a status message as MarkdownV2 with a bold header line.
func FormatStatus(message string) string {
	return "ℹ️ *LegitApply*\n" + escapeMarkdown(message)
}

// FormatError renders a failed run as MarkdownV2.
func FormatError(err error) string {
	return "❌ *LegitApply run failed*\n" + escapeMarkdown(err.Error())
}

func (b *Bot) SendStatus(message string) error {
	return b.send(FormatStatus(message))
}

func (b *Bot) SendError(err error) error {
	return b.send(FormatError(err))
}

func (b *Bot) send(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// Nop is used when no bot is configured.
type Nop struct{}

func (Nop) SendStatus(string) error { return nil }
func (Nop) SendError(error) error   { return nil }
