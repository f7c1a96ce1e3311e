package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"gastos/internal/log"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

type replierFunc func(ctx context.Context, message string) string

func (f replierFunc) Handle(ctx context.Context, message string) string { return f(ctx, message) }

func textUpdate(chatID int64, messageID int, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: messageID,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{UserName: "ana"},
		Text:      text,
	}}
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	u := textUpdate(chatID, 1, text)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/help")}}
	return u
}

func runBot(t *testing.T, r Replier, sender *fakeSender, updates ...tgbotapi.Update) {
	t.Helper()
	ch := make(chan tgbotapi.Update, len(updates))
	for _, u := range updates {
		ch <- u
	}
	close(ch)
	bot := NewBot(sender, ch, r, log.Discard())
	require.NoError(t, bot.Consume(context.Background()))
}

func TestBotRepliesToEachMessage(t *testing.T) {
	sender := &fakeSender{}
	var got []string
	r := replierFunc(func(_ context.Context, m string) string {
		got = append(got, m)
		return "ok: " + m
	})

	runBot(t, r, sender,
		textUpdate(7, 100, " spent 10 no nubank "),
		tgbotapi.Update{},
		textUpdate(7, 101, "   "),
		commandUpdate(8, "/help"),
	)

	require.Equal(t, []string{"spent 10 no nubank", "help"}, got)
	sent := sender.messages()
	require.Len(t, sent, 2)
	require.Equal(t, int64(7), sent[0].ChatID)
	require.Equal(t, 100, sent[0].ReplyToMessageID)
	require.Equal(t, "ok: spent 10 no nubank", sent[0].Text)
	require.Equal(t, int64(8), sent[1].ChatID)
}

func TestBotRecoversPanic(t *testing.T) {
	sender := &fakeSender{}
	r := replierFunc(func(context.Context, string) string { panic("boom") })

	runBot(t, r, sender, textUpdate(1, 2, "help"))

	sent := sender.messages()
	require.Len(t, sent, 1)
	require.Equal(t, msgCritical, sent[0].Text)
}

func TestBotKeepsConsumingAfterSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	calls := 0
	r := replierFunc(func(context.Context, string) string { calls++; return "x" })

	runBot(t, r, sender, textUpdate(1, 1, "a"), textUpdate(1, 2, "b"))
	require.Equal(t, 2, calls)
}

func TestBotStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bot := NewBot(&fakeSender{}, make(chan tgbotapi.Update), replierFunc(func(context.Context, string) string { return "" }), nil)

	done := make(chan error, 1)
	go func() { done <- bot.Consume(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, 42)
	require.NoError(t, n.Notify(context.Background(), "digest"))
	require.Equal(t, "digest", sender.messages()[0].Text)
	require.Equal(t, int64(42), sender.messages()[0].ChatID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, n.Notify(ctx, "late"), context.Canceled)

	require.ErrorContains(t, NewNotifier(&fakeSender{err: errors.New("nope")}, 1).Notify(context.Background(), "x"), "chat 1")
}
