package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

var difficultyBadges = map[entities.Difficulty]string{
	entities.DifficultyEasy:   "🟢 easy",
	entities.DifficultyMedium: "🟡 medium",
	entities.DifficultyHard:   "🔴 hard",
}

// renderQuestion renders a question message body in HTML.
func renderQuestion(q *entities.Question, position, total int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(msgQuestionHeader, position+1, total))

	meta := make([]string, 0, 2)
	if q.Category != "" {
		meta = append(meta, htmlText(q.Category))
	}
	if badge, ok := difficultyBadges[q.Difficulty]; ok {
		meta = append(meta, badge)
	}
	if len(meta) > 0 {
		b.WriteString("\n<i>")
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("</i>")
	}

	b.WriteString("\n\n")
	b.WriteString(htmlText(q.Question))

	return b.String()
}

// renderAnswered renders a question together with the verdict on its guess.
func renderAnswered(q *entities.Question, position, total int) string {
	text := renderQuestion(q, position, total)

	if _, ok := q.Guess(); !ok {
		return text
	}

	if q.IsCorrect() {
		return text + "\n\n" + msgCorrect
	}

	return text + "\n\n" + fmt.Sprintf(msgWrongFormat, "<b>"+htmlText(q.CorrectAnswer)+"</b>")
}

func renderScore(score entities.Score) string {
	text := fmt.Sprintf(msgScoreFormat, score.Correct, score.Answered, score.Percentage(), score.Total)
	if score.IsComplete() {
		text += msgScoreComplete
	}
	return text
}
