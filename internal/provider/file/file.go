// Package file serves trivia questions from a local JSON file in the
// Open Trivia Database response format.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider/opentdb"
)

// Provider reads the question file on every fetch so edits are picked up.
type Provider struct {
	path     string
	amount   int
	shuffler entities.Shuffler
}

// NewProvider creates a Provider returning at most amount random questions from path.
// A non-positive amount returns the whole file.
func NewProvider(path string, amount int, shuffler entities.Shuffler) *Provider {
	return &Provider{
		path:     path,
		amount:   amount,
		shuffler: shuffler,
	}
}

// FetchQuestions loads the file and picks a batch from it.
func (p *Provider) FetchQuestions(ctx context.Context) ([]entities.QuestionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: question file %s not found", provider.ErrUnavailable, p.path)
		}
		return nil, fmt.Errorf("%w: read question file: %v", provider.ErrUnavailable, err)
	}

	questions, err := opentdb.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.path, err)
	}
	if len(questions) == 0 {
		return nil, provider.ErrNoResults
	}

	p.shuffler.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	if p.amount > 0 && len(questions) > p.amount {
		questions = questions[:p.amount]
	}

	return questions, nil
}
