package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

// HandlerFunc handles a command for a chat.
type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorReply logs a failed command and tells the chat about it.
// Question source failures keep the previous batch usable, so they get a softer reply.
func (h *Handler) withErrorReply(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if isFetchFailure(err) {
			h.logger.Warn("failed to load questions",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendFetchFailed(chatID)
			return nil
		}

		h.logger.Error("command failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

func isFetchFailure(err error) bool {
	return errors.Is(err, provider.ErrUnavailable) ||
		errors.Is(err, provider.ErrMalformed) ||
		errors.Is(err, service.ErrInvalidBatch)
}
