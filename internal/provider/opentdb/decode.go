package opentdb

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
)

// Response codes documented by the Open Trivia Database API.
const (
	codeSuccess          = 0
	codeNoResults        = 1
	codeInvalidParameter = 2
	codeTokenNotFound    = 3
	codeTokenEmpty       = 4
	codeRateLimit        = 5
)

const responseSchema = `{
	"type": "object",
	"required": ["response_code"],
	"properties": {
		"response_code": {"type": "integer"},
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type", "difficulty", "question", "correct_answer", "incorrect_answers"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"category": {"type": "string"},
					"type": {"enum": ["multiple", "boolean"]},
					"difficulty": {"enum": ["easy", "medium", "hard"]},
					"question": {"type": "string"},
					"correct_answer": {"type": "string"},
					"incorrect_answers": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
})

type response struct {
	ResponseCode int                         `json:"response_code"`
	Results      []entities.QuestionSnapshot `json:"results"`
}

// Decode validates an API response body and returns its question records.
// Text is returned exactly as sent, HTML entities included.
func Decode(body []byte) ([]entities.QuestionSnapshot, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load response schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrMalformed, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, fmt.Errorf("%w: %s", provider.ErrMalformed, strings.Join(details, "; "))
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrMalformed, err)
	}

	if err := checkResponseCode(resp.ResponseCode); err != nil {
		return nil, err
	}

	return resp.Results, nil
}

func checkResponseCode(code int) error {
	switch code {
	case codeSuccess:
		return nil
	case codeNoResults:
		return provider.ErrNoResults
	case codeInvalidParameter:
		return fmt.Errorf("%w: invalid parameter", provider.ErrMalformed)
	case codeTokenNotFound, codeTokenEmpty:
		return fmt.Errorf("%w: session token rejected (code %d)", provider.ErrUnavailable, code)
	case codeRateLimit:
		return fmt.Errorf("%w: rate limit exceeded", provider.ErrUnavailable)
	default:
		return fmt.Errorf("%w: unknown response code %d", provider.ErrMalformed, code)
	}
}
