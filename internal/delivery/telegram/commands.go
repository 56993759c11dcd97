package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

// startQuiz loads a new batch in the background so updates keep flowing.
func (h *Handler) startQuiz(ctx context.Context, chatID int64) {
	h.send(newHTMLMessage(chatID, msgLoading))

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		_ = h.withErrorReply(h.quizHandler())(ctx, chatID)
	}()
}

func (h *Handler) quizHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := h.store.GetQuestions(ctx)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrStaleFetch):
			// A newer batch has already been rendered.
			return nil
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, provider.ErrNoResults):
			h.send(newHTMLMessage(chatID, msgNoQuestions))
			return nil
		default:
			return fmt.Errorf("load questions: %w", err)
		}

		h.renderQuestions(chatID)
		return nil
	}
}

func (h *Handler) sendFetchFailed(chatID int64) {
	text := msgFetchFailed
	if questions, _ := h.store.Snapshot(); len(questions) > 0 {
		text = msgFetchKeptOld
	}

	msg := newHTMLMessage(chatID, text)
	msg.ReplyMarkup = buildQuizMenuKeyboard()
	h.send(msg)
}

func (h *Handler) renderQuestions(chatID int64) {
	questions, generation := h.store.Snapshot()
	if len(questions) == 0 {
		h.send(newHTMLMessage(chatID, msgNoQuestions))
		return
	}

	for pos, q := range questions {
		msg := newHTMLMessage(chatID, renderQuestion(q, pos, len(questions)))
		msg.ReplyMarkup = buildAnswerKeyboard(q, generation, pos, h.shuffler)
		h.send(msg)
	}
}

func (h *Handler) scoreHandler() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		score := h.store.Score()
		if score.Total == 0 {
			h.send(newHTMLMessage(chatID, msgNoActiveQuiz))
			return nil
		}

		msg := newHTMLMessage(chatID, renderScore(score))
		msg.ReplyMarkup = buildQuizMenuKeyboard()
		h.send(msg)
		return nil
	}
}
