// internal/service/notifier_telegram.go
package service

import (
	"context"
	"fmt"
	"strconv"

	"go_5_read_keep/internal/middleware"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier はTelegram Botでメッセージを送る Notifier 実装です。
// recipient にはユーザーの外部ID（TelegramのチャットID）をそのまま渡します。
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(botToken string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("NewTelegramNotifier: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, recipient string, text string) error {
	logger := middleware.GetLogger(ctx)

	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		logger.Warn("Telegram notification skipped: recipient is not a chat ID", "recipient", recipient)
		return fmt.Errorf("TelegramNotifier.Send: invalid recipient: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		logger.Error("Failed to send Telegram notification", "error", err, "chat_id", chatID)
		return fmt.Errorf("TelegramNotifier.Send: %w", err)
	}

	logger.Debug("Telegram notification sent", "chat_id", chatID)
	return nil
}
