// internal/service/notifier.go
package service

import (
	"context"
	"log/slog"

	"go_5_read_keep/internal/config"
	"go_5_read_keep/internal/middleware"
)

// Notifier は外部メッセージング（メンターへの提出通知など）への送信口です。
// 送信は fire-and-forget: 失敗はログに残して握りつぶし、呼び出し元へは
// 伝播させません（本処理をブロックしない）。
type Notifier interface {
	Send(ctx context.Context, recipient string, text string) error
}

// --- LogNotifier ---
// 実際には送信せずログに出すだけの実装（開発・テスト用）。
type LogNotifier struct{}

func (n *LogNotifier) Send(ctx context.Context, recipient string, text string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending Notification (LogNotifier) ---", "recipient", recipient, "text", text)
	return nil
}

// --- NewNotifier ファクトリ関数 ---
func NewNotifier(cfg *config.Config) Notifier {
	logger := slog.Default()
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		logger.Info("Initializing Telegram notifier...")
		notifier, err := NewTelegramNotifier(cfg.Telegram.BotToken)
		if err != nil {
			logger.Warn("Failed to initialize Telegram notifier, falling back to LogNotifier", "error", err)
			return &LogNotifier{}
		}
		return notifier
	}
	logger.Info("Initializing Log notifier...")
	return &LogNotifier{}
}
