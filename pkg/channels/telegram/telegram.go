package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"concierge/pkg/agent"
)

// TelegramConfig holds the credentials for the Telegram Bot API.
type TelegramConfig struct {
	Token string `json:"token"` // The secret BOT API string provided by @BotFather
}

// Channel is the Telegram chat surface. It long-polls for text messages,
// routes each one through the shared dispatch engine, and replies in place.
// Media and group-specific features are out of scope; non-text updates are
// skipped.
type Channel struct {
	engine *agent.Engine
	bot    *tgbotapi.BotAPI
	cancel context.CancelFunc
}

func NewChannel(cfg TelegramConfig, engine *agent.Engine) (*Channel, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)

	return &Channel{
		engine: engine,
		bot:    bot,
	}, nil
}

// Start launches the long-polling update loop in a background goroutine.
func (t *Channel) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel

	go func() {
		offset := 0
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			reqConfig := tgbotapi.NewUpdate(offset)
			reqConfig.Timeout = 60

			updates, err := t.bot.GetUpdates(reqConfig)
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Debug("Failed to get telegram updates", "error", err)
					time.Sleep(3 * time.Second)
					continue
				}
			}

			for _, update := range updates {
				if update.UpdateID >= offset {
					offset = update.UpdateID + 1
				}
				if update.Message == nil || update.Message.Text == "" {
					continue
				}
				go t.handle(ctx, update.Message)
			}
		}
	}()
}

// Stop ends the update loop. In-flight replies finish on their own.
func (t *Channel) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.bot.StopReceivingUpdates()
}

func (t *Channel) handle(ctx context.Context, msg *tgbotapi.Message) {
	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	if _, err := t.bot.Send(typing); err != nil {
		slog.Debug("Failed to send typing action", "error", err)
	}

	reply, err := t.engine.Respond(ctx, "telegram", msg.From.UserName, msg.Text)
	if err != nil {
		slog.Error("Telegram chat failed", "error", err)
		reply = "❌ Sorry, I couldn't reach the assistant right now. Please try again later."
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.ReplyToMessageID = msg.MessageID
	if _, err := t.bot.Send(out); err != nil {
		slog.Error("Failed to send telegram reply", "error", err)
	}
}
