package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	cd := decodeCallback(cb.Data)

	switch cd.Action {
	case actionGuess:
		h.handleGuessCallback(cb, cd)
	case actionQuiz:
		h.answerCallback(cb, "")
		h.startQuiz(ctx, chatID)
	case actionScore:
		h.answerCallback(cb, "")
		_ = h.withErrorReply(h.scoreHandler())(ctx, chatID)
	default:
		h.answerCallback(cb, "")
	}
}

func (h *Handler) handleGuessCallback(cb *tgbotapi.CallbackQuery, cd callbackData) {
	guess, err := parseGuessCallback(cd)
	if err != nil {
		h.logger.Debug("invalid guess callback", zap.String("data", cb.Data))
		h.answerCallback(cb, msgInvalidAnswer)
		return
	}

	questions, generation := h.store.Snapshot()
	if guess.Generation != generation || guess.Position >= len(questions) {
		h.answerCallback(cb, msgQuizOutdated)
		return
	}

	q := questions[guess.Position]
	answers := q.Answers()
	if guess.Answer >= len(answers) {
		h.answerCallback(cb, msgInvalidAnswer)
		return
	}

	previous, guessed := q.Guess()
	unchanged := guessed && previous == answers[guess.Answer]

	if err := h.store.SetGuess(q.ID, answers[guess.Answer]); err != nil {
		h.logger.Warn("failed to set guess",
			zap.String("question_id", q.ID),
			zap.Error(err),
		)
		h.answerCallback(cb, msgQuizOutdated)
		return
	}

	verdict := msgCorrect
	if !q.IsCorrect() {
		verdict = msgWrong
	}
	h.answerCallback(cb, verdict)

	// Telegram rejects an edit that changes nothing.
	if unchanged {
		return
	}

	edit := tgbotapi.NewEditMessageText(
		cb.Message.Chat.ID,
		cb.Message.MessageID,
		renderAnswered(q, guess.Position, len(questions)),
	)
	edit.ParseMode = tgbotapi.ModeHTML
	kb := markAnswerKeyboard(q, cb.Message.ReplyMarkup, guess.Answer)
	edit.ReplyMarkup = &kb

	h.send(edit)
}

// answerCallback removes the user's "clock" and optionally shows a notice.
func (h *Handler) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	answer := tgbotapi.NewCallback(cb.ID, text)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
