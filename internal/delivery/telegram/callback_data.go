package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionGuess = "guess"
	actionQuiz  = "quiz"
	actionScore = "score"
)

var errInvalidCallback = errors.New("invalid callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// guessCallback addresses an answer of a question in a given batch.
// Answer is an index into Question.Answers, which has a stable order.
type guessCallback struct {
	Generation uint64
	Position   int
	Answer     int
}

func buildGuessCallback(generation uint64, position, answer int) string {
	return callbackData{
		Action: actionGuess,
		Params: []string{
			strconv.FormatUint(generation, 10),
			strconv.Itoa(position),
			strconv.Itoa(answer),
		},
	}.encode()
}

func parseGuessCallback(cd callbackData) (guessCallback, error) {
	if cd.Action != actionGuess || len(cd.Params) != 3 {
		return guessCallback{}, errInvalidCallback
	}

	generation, err := strconv.ParseUint(cd.Params[0], 10, 64)
	if err != nil {
		return guessCallback{}, errInvalidCallback
	}

	position, err := strconv.Atoi(cd.Params[1])
	if err != nil || position < 0 {
		return guessCallback{}, errInvalidCallback
	}

	answer, err := strconv.Atoi(cd.Params[2])
	if err != nil || answer < 0 {
		return guessCallback{}, errInvalidCallback
	}

	return guessCallback{
		Generation: generation,
		Position:   position,
		Answer:     answer,
	}, nil
}

func buildQuizCallback() string {
	return callbackData{Action: actionQuiz}.encode()
}

func buildScoreCallback() string {
	return callbackData{Action: actionScore}.encode()
}
