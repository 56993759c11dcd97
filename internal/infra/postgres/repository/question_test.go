package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
)

// Runs against a disposable database: TEST_DATABASE_URL=postgres://... go test ./...
func newTestRepository(t *testing.T, query provider.Query) *QuestionRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../../migrations/001_trivia_questions.sql")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "TRUNCATE trivia_questions")
	require.NoError(t, err)

	return NewQuestionRepository(pool, postgres.NewTransactor(pool), query)
}

func TestQuestionRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepository(t, provider.Query{Amount: 10, Difficulty: "easy"})
	ctx := context.Background()

	_, err := repo.FetchQuestions(ctx)
	assert.ErrorIs(t, err, provider.ErrNoResults)

	batch := []entities.QuestionSnapshot{
		{
			Category:         "Science &amp; Nature",
			Type:             "boolean",
			Difficulty:       "easy",
			Question:         "The sky is blue.",
			CorrectAnswer:    "True",
			IncorrectAnswers: []string{"False"},
		},
		{
			ID:               "capital",
			Category:         "Geography",
			Type:             "multiple",
			Difficulty:       "medium",
			Question:         "What is the capital of Germany?",
			CorrectAnswer:    "Berlin",
			IncorrectAnswers: []string{"Paris", "Rome", "Madrid"},
		},
	}

	inserted, err := repo.SaveQuestions(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = repo.SaveQuestions(ctx, batch[:1])
	require.NoError(t, err)
	assert.Zero(t, inserted, "duplicate question text is skipped")

	questions, err := repo.FetchQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	got := questions[0]
	assert.NotEmpty(t, got.ID)
	got.ID = ""
	assert.Equal(t, batch[0], got)
}
