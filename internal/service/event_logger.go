package service

import "go.uber.org/zap"

// LogEvents returns a Listener writing store events to logger.
func LogEvents(logger *zap.Logger) Listener {
	return func(e Event) {
		fields := []zap.Field{
			zap.Stringer("event", e.Kind),
			zap.Uint64("generation", e.Generation),
			zap.Int("questions", e.Count),
		}

		switch e.Kind {
		case EventFetchFailed:
			logger.Warn("question fetch failed", append(fields, zap.Error(e.Err))...)
		case EventQuestionsReplaced:
			logger.Info("questions replaced", fields...)
		case EventGuessSet:
			logger.Debug("guess set", append(fields, zap.String("question_id", e.QuestionID))...)
		default:
			logger.Debug("store event", fields...)
		}
	}
}
