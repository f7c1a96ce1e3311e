// Package telegram carries chat messages between Telegram and the interpreter.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gastos/internal/log"
)

// Sender is the part of *tgbotapi.BotAPI the gateway uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Replier turns an inbound chat message into the reply text.
type Replier interface {
	Handle(ctx context.Context, message string) string
}

const msgCritical = "A serious error occurred while processing your message."

// Connect authenticates with token and subscribes to long-poll updates.
func Connect(token string, timeoutSeconds int) (*tgbotapi.BotAPI, tgbotapi.UpdatesChannel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSeconds
	return api, api.GetUpdatesChan(u), nil
}

// Bot answers each text message it receives as a reply to that message.
type Bot struct {
	sender  Sender
	updates tgbotapi.UpdatesChannel
	replier Replier
	logger  *log.Logger
}

// NewBot creates a consumer over updates.
func NewBot(sender Sender, updates tgbotapi.UpdatesChannel, replier Replier, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Bot{
		sender:  sender,
		updates: updates,
		replier: replier,
		logger:  logger.WithComponent(log.ComponentTelegram),
	}
}

// Consume handles updates until ctx is done or the channel closes.
func (b *Bot) Consume(ctx context.Context) error {
	b.logger.InfoContext(ctx, "Telegram consumer started")
	for {
		select {
		case <-ctx.Done():
			b.logger.InfoContext(ctx, "Telegram consumer stopped", log.FieldError, ctx.Err())
			return nil
		case update, ok := <-b.updates:
			if !ok {
				b.logger.InfoContext(ctx, "Telegram update channel closed")
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	text := messageText(msg)
	if text == "" {
		return
	}

	logger := b.logger.With(log.FieldChatID, msg.Chat.ID)
	if from := msg.From; from != nil {
		logger = logger.With(log.FieldSender, from.UserName)
	}
	ctx = log.NewContext(ctx, logger)
	logger.InfoContext(ctx, "Message received")

	reply := b.reply(ctx, text)
	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.sender.Send(out); err != nil {
		fields := log.NewFields().WithError(err, log.ErrorTypeNetwork)
		logger.ErrorContext(ctx, "Failed to send reply", fields.ToSlice()...)
	}
}

func (b *Bot) reply(ctx context.Context, text string) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			fields := log.NewFields().WithError(fmt.Errorf("panic: %v", rec), log.ErrorTypeInternal)
			b.logger.ErrorContext(ctx, "Unhandled failure processing message", fields.ToSlice()...)
			reply = msgCritical
		}
	}()
	return b.replier.Handle(ctx, text)
}

// messageText strips the slash from bot commands so "/help" reads as "help".
func messageText(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return strings.TrimSpace(msg.Command() + " " + msg.CommandArguments())
	}
	return strings.TrimSpace(msg.Text)
}
