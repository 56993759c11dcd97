// Command importer copies question batches from the Open Trivia Database
// into the PostgreSQL question bank used by the postgres provider.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/config"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz-bot/internal/logger"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider/opentdb"
)

func main() {
	var (
		batches = flag.Int("batches", 1, "Number of batches to import")
		pause   = flag.Duration("pause", 5*time.Second, "Pause between batches (the API allows one request per 5 seconds)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(false)
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("DATABASE_URL is required", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	query := provider.Query{
		Amount:     cfg.OpenTDB.Amount,
		Category:   cfg.OpenTDB.Category,
		Difficulty: cfg.OpenTDB.Difficulty,
		Type:       cfg.OpenTDB.Type,
	}

	client := opentdb.NewClient(opentdb.Config{
		BaseURL: cfg.OpenTDB.BaseURL,
		Timeout: cfg.OpenTDB.Timeout,
		Query:   query,
	}, lg.Named("opentdb"))
	repo := repository.NewQuestionRepository(pool, postgres.NewTransactor(pool), query)

	total := 0
	for i := 0; i < *batches; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				lg.Info("import interrupted", zap.Int("imported", total))
				return
			case <-time.After(*pause):
			}
		}

		questions, err := client.FetchQuestions(ctx)
		if err != nil {
			if errors.Is(err, provider.ErrNoResults) {
				lg.Info("no more questions for query", zap.Int("batch", i+1))
				break
			}
			lg.Fatal("failed to fetch questions", zap.Int("batch", i+1), zap.Error(err))
		}

		inserted, err := repo.SaveQuestions(ctx, questions)
		if err != nil {
			lg.Fatal("failed to save questions", zap.Int("batch", i+1), zap.Error(err))
		}
		total += inserted

		lg.Info("batch imported",
			zap.Int("batch", i+1),
			zap.Int("fetched", len(questions)),
			zap.Int("inserted", inserted),
		)
	}

	lg.Info("import finished", zap.Int("imported", total))
}
