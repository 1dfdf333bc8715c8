package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"costwatch/internal/adapters/config"
	"costwatch/pkg/errors"
	"costwatch/pkg/logger"
)

// Notifier delivers report messages to a fixed set of chats. Send-only:
// costwatch never consumes Telegram updates.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatIDs []int64
	log     *logger.Logger

	// Telegram allows ~30 msg/sec; stay well under it
	limiter *rate.Limiter
}

// NewNotifier creates a new Telegram notifier
func NewNotifier(cfg config.TelegramConfig, log *logger.Logger) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram bot token is required")
	}
	if len(cfg.ChatIDs) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "at least one report chat id is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	return &Notifier{
		api:     api,
		chatIDs: cfg.ChatIDs,
		log:     log.With("component", "telegram_notifier"),
		limiter: rate.NewLimiter(rate.Limit(20), 30),
	}, nil
}

// Send delivers the text to every configured chat. Delivery failures for
// individual chats are collected so one broken chat does not block the rest.
func (n *Notifier) Send(ctx context.Context, text string) error {
	var failed int
	for _, chatID := range n.chatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limiter wait interrupted")
		}

		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.api.Send(msg); err != nil {
			n.log.Errorw("Failed to send telegram message", "chat_id", chatID, "error", err)
			failed++
		}
	}

	if failed == len(n.chatIDs) {
		return errors.Wrapf(errors.ErrUnavailable, "all %d telegram deliveries failed", failed)
	}
	return nil
}
