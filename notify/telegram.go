package notify

import (
	"fmt"

	"turbomaster-scraper/scraper"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends run reports to a Telegram chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *log.Logger
}

// NewTelegramNotifier connects to the Bot API with token and reports to chatID
func NewTelegramNotifier(token string, chatID int64, logger *log.Logger) (*TelegramNotifier, error) {
	return newTelegramNotifier(token, tgbotapi.APIEndpoint, chatID, logger)
}

func newTelegramNotifier(token, endpoint string, chatID int64, logger *log.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.Debug("Authorized on telegram", "account", bot.Self.UserName)

	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Notify sends text to the configured chat
func (n *TelegramNotifier) Notify(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	n.logger.Debug("Sent telegram notification", "chat", n.chatID)
	return nil
}

// SummaryMessage formats a finished run for the operator
func SummaryMessage(summary scraper.Summary, output string) string {
	if !summary.Written {
		return fmt.Sprintf("⚠️ Catalog scrape finished: no data was scraped from %d brand URL(s). Nothing was saved.", summary.Brands)
	}
	return fmt.Sprintf("✅ Catalog scrape finished: %d rows from %d brand URL(s) saved to %s", summary.Rows, summary.Brands, output)
}

// FailureMessage formats an aborted run
func FailureMessage(err error) string {
	return fmt.Sprintf("❌ Catalog scrape failed, nothing was saved: %v", err)
}
