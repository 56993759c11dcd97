package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// answerOrder returns the indices into q.Answers in the order produced by q.AllAnswers.
// Equal answers are matched to distinct indices.
func answerOrder(q *entities.Question, shuffler entities.Shuffler) []int {
	canonical := q.Answers()
	shuffled := q.AllAnswers(shuffler)

	used := make([]bool, len(canonical))
	order := make([]int, 0, len(shuffled))

	for _, answer := range shuffled {
		for i, c := range canonical {
			if !used[i] && c == answer {
				used[i] = true
				order = append(order, i)
				break
			}
		}
	}

	return order
}

func answerButtonText(answer string, chosen bool) string {
	text := plain(answer)
	if chosen {
		return msgGuessMarker + text
	}
	return text
}

// buildAnswerKeyboard builds one row per answer in a freshly shuffled order.
func buildAnswerKeyboard(
	q *entities.Question,
	generation uint64,
	position int,
	shuffler entities.Shuffler,
) tgbotapi.InlineKeyboardMarkup {
	answers := q.Answers()
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(answers))

	for _, idx := range answerOrder(q, shuffler) {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				answerButtonText(answers[idx], false),
				buildGuessCallback(generation, position, idx),
			),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// markAnswerKeyboard rebuilds a keyboard in its existing order with the chosen answer marked.
func markAnswerKeyboard(
	q *entities.Question,
	existing *tgbotapi.InlineKeyboardMarkup,
	chosen int,
) tgbotapi.InlineKeyboardMarkup {
	answers := q.Answers()
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(answers))

	if existing == nil {
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	for _, row := range existing.InlineKeyboard {
		for _, button := range row {
			if button.CallbackData == nil {
				continue
			}

			cb, err := parseGuessCallback(decodeCallback(*button.CallbackData))
			if err != nil || cb.Answer >= len(answers) {
				continue
			}

			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					answerButtonText(answers[cb.Answer], cb.Answer == chosen),
					*button.CallbackData,
				),
			))
		}
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func buildQuizMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(msgNewQuizButton, buildQuizCallback()),
			tgbotapi.NewInlineKeyboardButtonData(msgShowScoreButton, buildScoreCallback()),
		),
	)
}
