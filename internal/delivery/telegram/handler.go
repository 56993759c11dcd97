package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

type Handler struct {
	bot      Bot
	logger   *zap.Logger
	store    QuestionStore
	shuffler entities.Shuffler
	chatID   int64 // when non-zero, other chats are ignored

	wg sync.WaitGroup
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	store QuestionStore,
	shuffler entities.Shuffler,
	chatID int64,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		store:    store,
		shuffler: shuffler,
		chatID:   chatID,
	}
}

// Run processes updates until ctx is cancelled and waits for running quiz loads.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")
	defer h.wg.Wait()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) allowed(chatID int64) bool {
	return h.chatID == 0 || h.chatID == chatID
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.Message == nil || !h.allowed(cb.Message.Chat.ID) {
			return
		}

		h.logger.Debug("callback received",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
		)
		h.handleCallback(ctx, cb)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	if !h.allowed(chatID) {
		h.logger.Debug("update from foreign chat ignored", zap.Int64("chat_id", chatID))
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if !update.Message.IsCommand() {
		h.send(newHTMLMessage(chatID, msgHelp))
		return
	}

	switch update.Message.Command() {
	case "start":
		msg := newHTMLMessage(chatID, msgWelcome)
		msg.ReplyMarkup = buildQuizMenuKeyboard()
		h.send(msg)

	case "help":
		h.send(newHTMLMessage(chatID, msgHelp))

	case "quiz":
		h.startQuiz(ctx, chatID)

	case "score":
		_ = h.withErrorReply(h.scoreHandler())(ctx, chatID)

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
