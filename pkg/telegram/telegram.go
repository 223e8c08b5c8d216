package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Notifier posts alert copies into a fixed operations chat.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return &Notifier{bot: b, chatID: chatID}, nil
}

func (n *Notifier) Post(ctx context.Context, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", n.chatID, err)
	}
	return nil
}
