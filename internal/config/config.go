package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Provider names accepted in the "provider" key.
const (
	ProviderOpenTDB  = "opentdb"
	ProviderPostgres = "postgres"
	ProviderFile     = "file"
)

const maxAmount = 50

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env         string   `mapstructure:"env"`          // current application environment (local, dev, production)
	Provider    string   `mapstructure:"provider"`     // question source: opentdb, postgres or file
	ShuffleSeed uint64   `mapstructure:"shuffle_seed"` // seed for answer shuffling, 0 means random
	Telegram    Telegram `mapstructure:"telegram"`     // bot configuration section
	OpenTDB     OpenTDB  `mapstructure:"opentdb"`      // Open Trivia Database client section
	File        File     `mapstructure:"file"`         // local question file section
	DB          DB       `mapstructure:"database"`     // database configuration section
}

// Telegram contains bot parameters.
type Telegram struct {
	APIToken string `mapstructure:"-"`       // Telegram API token loaded from environment
	ChatID   int64  `mapstructure:"chat_id"` // only this chat is served when non-zero
	Debug    bool   `mapstructure:"debug"`   // enables telegram-bot-api debug output
}

// OpenTDB configures the question API and the shape of a batch.
type OpenTDB struct {
	BaseURL    string        `mapstructure:"base_url"`
	Amount     int           `mapstructure:"amount"`     // questions per batch (1-50)
	Category   int           `mapstructure:"category"`   // category id, 0 for any
	Difficulty string        `mapstructure:"difficulty"` // easy, medium, hard or empty
	Type       string        `mapstructure:"type"`       // multiple, boolean or empty
	Timeout    time.Duration `mapstructure:"timeout"`
}

// File points to a local question file.
type File struct {
	Path string `mapstructure:"path"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
// The Telegram token is only required when requireToken is set.
func Load(requireToken bool) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("provider", ProviderOpenTDB)
	v.SetDefault("shuffle_seed", 0)
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.debug", false)
	v.SetDefault("opentdb.base_url", "https://opentdb.com")
	v.SetDefault("opentdb.amount", 10)
	v.SetDefault("opentdb.category", 0)
	v.SetDefault("opentdb.difficulty", "")
	v.SetDefault("opentdb.type", "")
	v.SetDefault("opentdb.timeout", "10s")
	v.SetDefault("file.path", "assets/questions.json")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("provider", "QUESTION_PROVIDER")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Telegram.APIToken = v.GetString("telegram_api_token")
	if requireToken && cfg.Telegram.APIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOpenTDB, ProviderFile:
	case ProviderPostgres:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}

	if c.OpenTDB.Amount < 1 || c.OpenTDB.Amount > maxAmount {
		return fmt.Errorf("%w: opentdb.amount must be between 1 and %d", ErrInvalidConfig, maxAmount)
	}

	switch c.OpenTDB.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, c.OpenTDB.Difficulty)
	}

	switch c.OpenTDB.Type {
	case "", "multiple", "boolean":
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidConfig, c.OpenTDB.Type)
	}

	return nil
}
