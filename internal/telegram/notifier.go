package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier pushes unsolicited messages to one chat.
type Notifier struct {
	sender Sender
	chatID int64
}

// NewNotifier creates a Notifier bound to chatID.
func NewNotifier(sender Sender, chatID int64) *Notifier {
	return &Notifier{sender: sender, chatID: chatID}
}

// Notify sends text to the notifier's chat.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := n.sender.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("failed to notify chat %d: %w", n.chatID, err)
	}
	return nil
}
