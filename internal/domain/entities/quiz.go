package entities

// Score summarizes the guesses made on the current batch of questions.
type Score struct {
	Total    int // number of questions in the batch
	Answered int // questions with a guess
	Correct  int // questions whose guess is correct
}

// NewScore computes the score of a batch of questions.
func NewScore(questions []*Question) Score {
	s := Score{Total: len(questions)}
	for _, q := range questions {
		if _, ok := q.Guess(); !ok {
			continue
		}
		s.Answered++
		if q.IsCorrect() {
			s.Correct++
		}
	}
	return s
}

// Percentage returns the share of correct answers among answered questions.
func (s Score) Percentage() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) * 100 / float64(s.Answered)
}

// IsComplete reports whether every question of the batch has a guess.
func (s Score) IsComplete() bool {
	return s.Total > 0 && s.Answered == s.Total
}
