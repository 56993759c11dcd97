package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidBatch     = errors.New("invalid question batch")
	// ErrStaleFetch is returned by a fetch whose result, or failure, was discarded
	// because a fetch started after it has already replaced the questions.
	ErrStaleFetch = errors.New("fetch superseded by a newer one")
)

// QuestionProvider fetches one batch of question records.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context) ([]entities.QuestionSnapshot, error)
}

// FetchStatus is the state of the store's fetch cycle.
type FetchStatus string

const (
	StatusIdle     FetchStatus = "idle"
	StatusFetching FetchStatus = "fetching"
)

// EventKind identifies a store state change.
type EventKind int

const (
	EventFetchStarted EventKind = iota
	EventQuestionsReplaced
	EventFetchFailed
	EventGuessSet
)

func (k EventKind) String() string {
	switch k {
	case EventFetchStarted:
		return "fetch_started"
	case EventQuestionsReplaced:
		return "questions_replaced"
	case EventFetchFailed:
		return "fetch_failed"
	case EventGuessSet:
		return "guess_set"
	default:
		return "unknown"
	}
}

// Event describes a state change published to listeners.
type Event struct {
	Kind       EventKind
	Generation uint64 // generation after the change
	Count      int    // number of stored questions
	QuestionID string // set for EventGuessSet
	Err        error  // set for EventFetchFailed
}

// Listener receives store events. It is called synchronously and must not block.
type Listener func(Event)

// StoreOption customizes a QuestionStore.
type StoreOption func(*QuestionStore)

// WithIDGenerator sets the function that names questions the provider left without an id.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *QuestionStore) {
		s.newID = fn
	}
}

// QuestionStore holds the current batch of questions.
// The batch is only ever replaced as a whole.
type QuestionStore struct {
	provider QuestionProvider
	newID    func() string

	mu         sync.RWMutex
	questions  []*entities.Question
	byID       map[string]*entities.Question
	generation uint64
	startedSeq uint64
	appliedSeq uint64
	inFlight   int
	lastErr    error

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// NewQuestionStore creates an empty QuestionStore backed by provider.
func NewQuestionStore(provider QuestionProvider, opts ...StoreOption) *QuestionStore {
	s := &QuestionStore{
		provider:  provider,
		newID:     uuid.NewString,
		byID:      make(map[string]*entities.Question),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetQuestions fetches a new batch and replaces the stored questions with it.
// On failure the stored questions are left untouched.
func (s *QuestionStore) GetQuestions(ctx context.Context) error {
	s.mu.Lock()
	s.startedSeq++
	seq := s.startedSeq
	s.inFlight++
	generation := s.generation
	count := len(s.questions)
	s.mu.Unlock()

	s.publish(Event{Kind: EventFetchStarted, Generation: generation, Count: count})

	questions, err := s.fetchBatch(ctx)

	s.mu.Lock()
	s.inFlight--

	if err != nil {
		if seq < s.appliedSeq {
			s.mu.Unlock()
			return fmt.Errorf("get questions: %w: %w", ErrStaleFetch, err)
		}

		s.lastErr = err
		generation, count = s.generation, len(s.questions)
		s.mu.Unlock()

		s.publish(Event{Kind: EventFetchFailed, Generation: generation, Count: count, Err: err})
		return fmt.Errorf("get questions: %w", err)
	}

	if seq < s.appliedSeq {
		s.mu.Unlock()
		return ErrStaleFetch
	}

	byID := make(map[string]*entities.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	s.questions = questions
	s.byID = byID
	s.appliedSeq = seq
	s.generation++
	s.lastErr = nil
	generation, count = s.generation, len(s.questions)
	s.mu.Unlock()

	s.publish(Event{Kind: EventQuestionsReplaced, Generation: generation, Count: count})
	return nil
}

func (s *QuestionStore) fetchBatch(ctx context.Context) ([]*entities.Question, error) {
	snapshots, err := s.provider.FetchQuestions(ctx)
	if err != nil {
		return nil, err
	}

	questions := make([]*entities.Question, 0, len(snapshots))
	seen := make(map[string]struct{}, len(snapshots))

	for i, snapshot := range snapshots {
		id := snapshot.ID
		if id == "" {
			id = s.newID()
		}

		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q at position %d", ErrInvalidBatch, id, i)
		}
		seen[id] = struct{}{}

		q, err := entities.NewQuestion(id, snapshot)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %w", ErrInvalidBatch, i, err)
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// Questions returns the current batch in provider order.
func (s *QuestionStore) Questions() []*entities.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]*entities.Question, len(s.questions))
	copy(questions, s.questions)
	return questions
}

// Snapshot returns the current batch together with its generation.
func (s *QuestionStore) Snapshot() ([]*entities.Question, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]*entities.Question, len(s.questions))
	copy(questions, s.questions)
	return questions, s.generation
}

// Question looks up a question of the current batch by id.
func (s *QuestionStore) Question(id string) (*entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.byID[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// SetGuess records a guess on the question with the given id.
func (s *QuestionStore) SetGuess(id, guess string) error {
	q, err := s.Question(id)
	if err != nil {
		return err
	}

	q.SetGuess(guess)

	s.mu.RLock()
	generation, count := s.generation, len(s.questions)
	s.mu.RUnlock()

	s.publish(Event{Kind: EventGuessSet, Generation: generation, Count: count, QuestionID: id})
	return nil
}

// Score summarizes the guesses on the current batch.
func (s *QuestionStore) Score() entities.Score {
	return entities.NewScore(s.Questions())
}

// Generation counts successful replacements of the batch.
func (s *QuestionStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Status reports whether a fetch is in flight.
func (s *QuestionStore) Status() FetchStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.inFlight > 0 {
		return StatusFetching
	}
	return StatusIdle
}

// LastError returns the error of the most recent fetch, or nil if it succeeded.
func (s *QuestionStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe registers a listener and returns a function removing it.
func (s *QuestionStore) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *QuestionStore) publish(e Event) {
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}
