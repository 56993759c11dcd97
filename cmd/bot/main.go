package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/config"
	"github.com/aliskhannn/trivia-quiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz-bot/internal/logger"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider/file"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider/opentdb"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

func main() {
	// .env is optional, real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load(true)
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.APIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}
	bot.Debug = cfg.Telegram.Debug

	commands := []tgbotapi.BotCommand{
		{
			Command:     "quiz",
			Description: "Load a new batch of questions",
		},
		{
			Command:     "score",
			Description: "Show the score for the current batch",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized", zap.String("account", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shuffler := service.NewShuffler(cfg.ShuffleSeed)

	questionProvider, closeProvider, err := newProvider(ctx, cfg, lg, shuffler)
	if err != nil {
		lg.Fatal("failed to create question provider", zap.Error(err))
	}
	defer closeProvider()

	store := service.NewQuestionStore(questionProvider)
	unsubscribe := store.Subscribe(service.LogEvents(lg.Named("store")))
	defer unsubscribe()

	handler := telegram.NewHandler(
		bot,
		lg.Named("telegram"),
		store,
		shuffler,
		cfg.Telegram.ChatID,
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("handler stopped with error", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}

func newProvider(
	ctx context.Context,
	cfg *config.Config,
	lg *zap.Logger,
	shuffler entities.Shuffler,
) (service.QuestionProvider, func(), error) {
	query := provider.Query{
		Amount:     cfg.OpenTDB.Amount,
		Category:   cfg.OpenTDB.Category,
		Difficulty: cfg.OpenTDB.Difficulty,
		Type:       cfg.OpenTDB.Type,
	}

	lg.Info("question provider selected", zap.String("provider", cfg.Provider))

	switch cfg.Provider {
	case config.ProviderPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		repo := repository.NewQuestionRepository(pool, postgres.NewTransactor(pool), query)
		return repo, pool.Close, nil

	case config.ProviderFile:
		return file.NewProvider(cfg.File.Path, cfg.OpenTDB.Amount, shuffler), func() {}, nil

	default:
		client := opentdb.NewClient(opentdb.Config{
			BaseURL: cfg.OpenTDB.BaseURL,
			Timeout: cfg.OpenTDB.Timeout,
			Query:   query,
		}, lg.Named("opentdb"))
		return client, func() {}, nil
	}
}
