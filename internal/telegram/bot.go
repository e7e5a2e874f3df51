// Package telegram is a long-polling gateway in front of the chat engine.
// Conversation state is kept per chat id in the session manager.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/chat"
	"github.com/ccraze049/ai/internal/session"
	"github.com/ccraze049/ai/internal/storage"
)

const resetCmd = "reset"

type Bot struct {
	api      *tgbotapi.BotAPI
	s        sender
	engine   *chat.Engine
	sessions *session.Manager
	recorder storage.Recorder
	log      *zap.Logger
}

func New(botToken string, engine *chat.Engine, recorder storage.Recorder, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:      api,
		s:        botAPISender{api: api},
		engine:   engine,
		sessions: session.NewManager(),
		recorder: recorder,
		log:      logger,
	}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil && update.Message.Text != "" {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	sessionID := fmt.Sprintf("tg:%d", msg.Chat.ID)

	if msg.IsCommand() {
		b.handleCommand(msg, sessionID)
		return
	}

	cctx := b.sessions.Get(sessionID)
	resp, err := b.engine.ProcessQuery(ctx, msg.Text, cctx)
	if err != nil {
		b.log.Error("failed to process message", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}
	b.sessions.Put(resp.Context)
	b.record(sessionID, msg.Text, resp)

	b.sendMessage(msg.Chat.ID, resp.Answer)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message, sessionID string) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID,
			"Hi! Ask me anything in English, Hindi or Hinglish. "+
				"Teach me with 'Question: ... Answer: ...'. Use /reset to start over.")
	case resetCmd:
		b.sessions.Reset(sessionID)
		b.sendMessage(msg.Chat.ID, "Conversation cleared. Let's start fresh!")
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Try /reset.")
	}
}

func (b *Bot) record(sessionID, text string, resp chat.Response) {
	if b.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:         time.Now().UTC(),
		SessionID:         sessionID,
		UserMessage:       text,
		AssistantResponse: resp.Answer,
		Language:          string(resp.Language.Language),
		Confidence:        string(resp.Confidence),
	}
	if err := b.recorder.AppendInteraction(ev); err != nil {
		b.log.Warn("failed to record interaction", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		b.log.Error("failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}
