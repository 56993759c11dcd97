package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
)

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// QuestionRepository is a question bank stored in PostgreSQL.
// It serves as a question provider and as the import target.
type QuestionRepository struct {
	db         postgres.DBTX
	transactor TxRunner
	query      provider.Query
}

// NewQuestionRepository creates a new QuestionRepository. The query limits and
// filters the batches returned by FetchQuestions; its category is not applied
// because the bank stores category names only.
func NewQuestionRepository(db postgres.DBTX, transactor TxRunner, query provider.Query) *QuestionRepository {
	return &QuestionRepository{
		db:         db,
		transactor: transactor,
		query:      query,
	}
}

// FetchQuestions returns a random batch from the bank.
func (r *QuestionRepository) FetchQuestions(ctx context.Context) ([]entities.QuestionSnapshot, error) {
	query := `
		SELECT id, category, type, difficulty, question, correct_answer, incorrect_answers
		FROM trivia_questions
		WHERE ($1::text = '' OR difficulty = $1)
		  AND ($2::text = '' OR type = $2)
		ORDER BY random()
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, r.query.Difficulty, r.query.Type, r.query.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: select questions: %v", provider.ErrUnavailable, err)
	}
	defer rows.Close()

	var questions []entities.QuestionSnapshot
	for rows.Next() {
		var q entities.QuestionSnapshot
		if err := rows.Scan(
			&q.ID,
			&q.Category,
			&q.Type,
			&q.Difficulty,
			&q.Question,
			&q.CorrectAnswer,
			&q.IncorrectAnswers,
		); err != nil {
			return nil, fmt.Errorf("%w: scan question: %v", provider.ErrMalformed, err)
		}
		if q.IncorrectAnswers == nil {
			q.IncorrectAnswers = []string{}
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate questions: %v", provider.ErrUnavailable, err)
	}

	if len(questions) == 0 {
		return nil, provider.ErrNoResults
	}

	return questions, nil
}

// SaveQuestions inserts a batch in a single transaction, skipping questions whose
// text already exists in the bank. It returns the number of inserted rows.
func (r *QuestionRepository) SaveQuestions(ctx context.Context, questions []entities.QuestionSnapshot) (int, error) {
	query := `
		INSERT INTO trivia_questions (
			id, category, type, difficulty, question, correct_answer, incorrect_answers
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`

	inserted := 0
	err := r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, q := range questions {
			id := q.ID
			if id == "" {
				id = uuid.NewString()
			}

			incorrect := q.IncorrectAnswers
			if incorrect == nil {
				incorrect = []string{}
			}

			tag, err := tx.Exec(
				ctx,
				query,
				id,
				q.Category,
				q.Type,
				q.Difficulty,
				q.Question,
				q.CorrectAnswer,
				incorrect,
			)
			if err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}
