package entities

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrUnknownDifficulty   = errors.New("unknown difficulty")
)

// QuestionType is the answer format of a trivia question.
type QuestionType string

const (
	QuestionTypeMultiple QuestionType = "multiple"
	QuestionTypeBoolean  QuestionType = "boolean"
)

// ParseQuestionType maps a provider value to a QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	switch QuestionType(s) {
	case QuestionTypeMultiple, QuestionTypeBoolean:
		return QuestionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, s)
	}
}

// Difficulty is the difficulty level reported by the provider.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a provider value to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Shuffler permutes n elements through swap.
// Implementations must produce every permutation with equal probability.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// QuestionSnapshot is a question record as received from a provider.
// Text fields keep the provider's encoding (OpenTDB sends HTML entities).
type QuestionSnapshot struct {
	ID               string   `json:"id,omitempty"`
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Question is a single trivia question with the user's current guess.
// Only the guess changes after creation.
type Question struct {
	ID               string
	Category         string
	Type             QuestionType
	Difficulty       Difficulty
	Question         string
	CorrectAnswer    string
	IncorrectAnswers []string

	mu    sync.RWMutex
	guess *string
}

// NewQuestion builds a Question from a snapshot under the given id.
func NewQuestion(id string, s QuestionSnapshot) (*Question, error) {
	qType, err := ParseQuestionType(s.Type)
	if err != nil {
		return nil, err
	}

	difficulty, err := ParseDifficulty(s.Difficulty)
	if err != nil {
		return nil, err
	}

	incorrect := make([]string, len(s.IncorrectAnswers))
	copy(incorrect, s.IncorrectAnswers)

	return &Question{
		ID:               id,
		Category:         s.Category,
		Type:             qType,
		Difficulty:       difficulty,
		Question:         s.Question,
		CorrectAnswer:    s.CorrectAnswer,
		IncorrectAnswers: incorrect,
	}, nil
}

// Answers returns the incorrect answers followed by the correct answer, if any.
// The order is stable and can be used to address an answer by index.
func (q *Question) Answers() []string {
	answers := make([]string, 0, len(q.IncorrectAnswers)+1)
	answers = append(answers, q.IncorrectAnswers...)
	if q.CorrectAnswer != "" {
		answers = append(answers, q.CorrectAnswer)
	}
	return answers
}

// AllAnswers returns every candidate answer in a fresh random order.
// The order is recomputed on each call.
func (q *Question) AllAnswers(s Shuffler) []string {
	answers := q.Answers()
	s.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})
	return answers
}

// SetGuess records candidate as the user's guess, replacing any previous one.
func (q *Question) SetGuess(candidate string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.guess = &candidate
}

// Guess returns the current guess and whether one has been made.
func (q *Question) Guess() (string, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.guess == nil {
		return "", false
	}
	return *q.guess, true
}

// IsCorrect reports whether the guess equals the correct answer exactly.
func (q *Question) IsCorrect() bool {
	guess, ok := q.Guess()
	return ok && guess == q.CorrectAnswer
}

// Snapshot returns the provider form of the question, without the guess.
func (q *Question) Snapshot() QuestionSnapshot {
	incorrect := make([]string, len(q.IncorrectAnswers))
	copy(incorrect, q.IncorrectAnswers)

	return QuestionSnapshot{
		ID:               q.ID,
		Category:         q.Category,
		Type:             string(q.Type),
		Difficulty:       string(q.Difficulty),
		Question:         q.Question,
		CorrectAnswer:    q.CorrectAnswer,
		IncorrectAnswers: incorrect,
	}
}
