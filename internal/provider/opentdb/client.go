// Package opentdb fetches trivia questions from the Open Trivia Database.
package opentdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
)

const maxBodySize = 1 << 20

// Config configures the API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Query   provider.Query
}

// Client requests question batches from the API.
type Client struct {
	baseURL    string
	query      provider.Query
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for the given configuration.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		query:      cfg.Query,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// FetchQuestions requests one batch of questions.
func (c *Client) FetchQuestions(ctx context.Context) ([]entities.QuestionSnapshot, error) {
	endpoint := c.endpoint()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("opentdb response",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", provider.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", provider.ErrUnavailable, err)
	}

	return Decode(body)
}

func (c *Client) endpoint() string {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(c.query.Amount))
	if c.query.Category > 0 {
		params.Set("category", strconv.Itoa(c.query.Category))
	}
	if c.query.Difficulty != "" {
		params.Set("difficulty", c.query.Difficulty)
	}
	if c.query.Type != "" {
		params.Set("type", c.query.Type)
	}

	return c.baseURL + "/api.php?" + params.Encode()
}
