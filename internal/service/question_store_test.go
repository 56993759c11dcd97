package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/provider"
)

type providerFunc func(ctx context.Context) ([]entities.QuestionSnapshot, error)

func (f providerFunc) FetchQuestions(ctx context.Context) ([]entities.QuestionSnapshot, error) {
	return f(ctx)
}

func staticProvider(batches ...[]entities.QuestionSnapshot) providerFunc {
	var (
		mu sync.Mutex
		i  int
	)
	return func(context.Context) ([]entities.QuestionSnapshot, error) {
		mu.Lock()
		defer mu.Unlock()
		batch := batches[i%len(batches)]
		i++
		return batch, nil
	}
}

func sequentialIDs() StoreOption {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	})
}

var (
	skyIsBlue = entities.QuestionSnapshot{
		Category:         "Science &amp; Nature",
		Type:             "boolean",
		Difficulty:       "easy",
		Question:         "The sky is blue.",
		CorrectAnswer:    "True",
		IncorrectAnswers: []string{"False"},
	}
	capital = entities.QuestionSnapshot{
		Category:         "Geography",
		Type:             "multiple",
		Difficulty:       "medium",
		Question:         "What is the capital of &quot;Germany&quot;?",
		CorrectAnswer:    "Berlin",
		IncorrectAnswers: []string{"Paris", "Rome", "Madrid"},
	}
)

func TestQuestionStoreStartsEmpty(t *testing.T) {
	s := NewQuestionStore(staticProvider(nil))

	assert.Empty(t, s.Questions())
	assert.Equal(t, uint64(0), s.Generation())
	assert.Equal(t, StatusIdle, s.Status())
	assert.NoError(t, s.LastError())
	assert.Equal(t, entities.Score{}, s.Score())
}

func TestGetQuestionsReplacesVerbatim(t *testing.T) {
	s := NewQuestionStore(staticProvider([]entities.QuestionSnapshot{skyIsBlue, capital}), sequentialIDs())

	require.NoError(t, s.GetQuestions(context.Background()))

	questions := s.Questions()
	require.Len(t, questions, 2)
	assert.Equal(t, uint64(1), s.Generation())

	for i, want := range []entities.QuestionSnapshot{skyIsBlue, capital} {
		got := questions[i].Snapshot()
		want.ID = fmt.Sprintf("gen-%d", i+1)
		assert.Equal(t, want, got)
	}
}

func TestGetQuestionsKeepsProviderIDs(t *testing.T) {
	withID := capital
	withID.ID = "bank-17"

	s := NewQuestionStore(staticProvider([]entities.QuestionSnapshot{withID, skyIsBlue}), sequentialIDs())
	require.NoError(t, s.GetQuestions(context.Background()))

	questions := s.Questions()
	assert.Equal(t, "bank-17", questions[0].ID)
	assert.Equal(t, "gen-1", questions[1].ID)

	q, err := s.Question("bank-17")
	require.NoError(t, err)
	assert.Same(t, questions[0], q)
}

func TestGetQuestionsGeneratesUUIDs(t *testing.T) {
	s := NewQuestionStore(staticProvider([]entities.QuestionSnapshot{skyIsBlue, skyIsBlue, capital}))
	require.NoError(t, s.GetQuestions(context.Background()))

	ids := make(map[string]struct{})
	for _, q := range s.Questions() {
		assert.Len(t, q.ID, 36)
		ids[q.ID] = struct{}{}
	}
	assert.Len(t, ids, 3)
}

func TestGetQuestionsReplacesWholesale(t *testing.T) {
	s := NewQuestionStore(staticProvider(
		[]entities.QuestionSnapshot{skyIsBlue, capital},
		[]entities.QuestionSnapshot{capital},
	), sequentialIDs())

	require.NoError(t, s.GetQuestions(context.Background()))
	first := s.Questions()
	first[0].SetGuess("True")

	require.NoError(t, s.GetQuestions(context.Background()))
	second := s.Questions()

	require.Len(t, second, 1)
	assert.Equal(t, "gen-3", second[0].ID)
	assert.Equal(t, uint64(2), s.Generation())

	_, err := s.Question(first[0].ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.Equal(t, entities.Score{Total: 1}, s.Score())
}

func TestGetQuestionsFailureKeepsQuestions(t *testing.T) {
	fail := errors.New("connection refused")
	calls := 0
	p := providerFunc(func(context.Context) ([]entities.QuestionSnapshot, error) {
		calls++
		if calls == 1 {
			return []entities.QuestionSnapshot{skyIsBlue}, nil
		}
		return nil, fmt.Errorf("%w: %v", provider.ErrUnavailable, fail)
	})

	s := NewQuestionStore(p)
	require.NoError(t, s.GetQuestions(context.Background()))
	before := s.Questions()

	err := s.GetQuestions(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.ErrorIs(t, s.LastError(), provider.ErrUnavailable)

	assert.Equal(t, before, s.Questions())
	assert.Equal(t, uint64(1), s.Generation())
	assert.Equal(t, StatusIdle, s.Status())
}

func TestGetQuestionsRejectsInvalidBatch(t *testing.T) {
	dup := capital
	dup.ID = "same"
	dup2 := skyIsBlue
	dup2.ID = "same"

	badType := capital
	badType.Type = "open"

	tests := []struct {
		name    string
		batch   []entities.QuestionSnapshot
		wantErr error
	}{
		{
			name:    "duplicate ids",
			batch:   []entities.QuestionSnapshot{dup, dup2},
			wantErr: ErrInvalidBatch,
		},
		{
			name:    "unknown type",
			batch:   []entities.QuestionSnapshot{skyIsBlue, badType},
			wantErr: entities.ErrUnknownQuestionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewQuestionStore(staticProvider(tt.batch))

			err := s.GetQuestions(context.Background())
			assert.ErrorIs(t, err, ErrInvalidBatch)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.Questions(), "no partial batch is stored")
		})
	}
}

func TestSetGuessThroughStore(t *testing.T) {
	s := NewQuestionStore(staticProvider([]entities.QuestionSnapshot{skyIsBlue, capital}), sequentialIDs())
	require.NoError(t, s.GetQuestions(context.Background()))

	require.NoError(t, s.SetGuess("gen-1", "True"))
	require.NoError(t, s.SetGuess("gen-2", "Paris"))
	assert.ErrorIs(t, s.SetGuess("missing", "x"), ErrQuestionNotFound)

	q, err := s.Question("gen-1")
	require.NoError(t, err)
	assert.True(t, q.IsCorrect())

	assert.Equal(t, entities.Score{Total: 2, Answered: 2, Correct: 1}, s.Score())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	calls := 0
	p := providerFunc(func(context.Context) ([]entities.QuestionSnapshot, error) {
		calls++
		if calls == 2 {
			return nil, provider.ErrMalformed
		}
		return []entities.QuestionSnapshot{skyIsBlue}, nil
	})

	s := NewQuestionStore(p, sequentialIDs())

	var events []Event
	unsubscribe := s.Subscribe(func(e Event) {
		events = append(events, e)
	})

	require.NoError(t, s.GetQuestions(context.Background()))
	require.Error(t, s.GetQuestions(context.Background()))
	require.NoError(t, s.SetGuess("gen-1", "False"))

	unsubscribe()
	require.NoError(t, s.GetQuestions(context.Background()))

	kinds := make([]EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []EventKind{
		EventFetchStarted,
		EventQuestionsReplaced,
		EventFetchStarted,
		EventFetchFailed,
		EventGuessSet,
	}, kinds)

	assert.Equal(t, uint64(1), events[1].Generation)
	assert.Equal(t, 1, events[1].Count)
	assert.ErrorIs(t, events[3].Err, provider.ErrMalformed)
	assert.Equal(t, "gen-1", events[4].QuestionID)
}

func TestStatusWhileFetching(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	p := providerFunc(func(context.Context) ([]entities.QuestionSnapshot, error) {
		close(started)
		<-release
		return []entities.QuestionSnapshot{skyIsBlue}, nil
	})
	s := NewQuestionStore(p)

	done := make(chan error)
	go func() { done <- s.GetQuestions(context.Background()) }()

	<-started
	assert.Equal(t, StatusFetching, s.Status())
	assert.Empty(t, s.Questions(), "old list stays visible while fetching")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Len(t, s.Questions(), 1)
}

func TestOverlappingFetchesLastWriterWins(t *testing.T) {
	type call struct {
		release chan struct{}
		batch   []entities.QuestionSnapshot
	}

	first := call{release: make(chan struct{}), batch: []entities.QuestionSnapshot{skyIsBlue}}
	second := call{release: make(chan struct{}), batch: []entities.QuestionSnapshot{capital, skyIsBlue}}
	calls := make(chan call, 2)
	calls <- first
	calls <- second

	started := make(chan struct{}, 2)
	p := providerFunc(func(context.Context) ([]entities.QuestionSnapshot, error) {
		c := <-calls
		started <- struct{}{}
		<-c.release
		return c.batch, nil
	})
	s := NewQuestionStore(p)

	firstDone := make(chan error)
	go func() { firstDone <- s.GetQuestions(context.Background()) }()
	<-started

	secondDone := make(chan error)
	go func() { secondDone <- s.GetQuestions(context.Background()) }()
	<-started

	// The newer fetch completes first; the older one is discarded afterwards.
	close(second.release)
	require.NoError(t, <-secondDone)
	assert.Len(t, s.Questions(), 2)

	close(first.release)
	assert.ErrorIs(t, <-firstDone, ErrStaleFetch)
	assert.Len(t, s.Questions(), 2)
	assert.Equal(t, uint64(1), s.Generation())
}

func TestOlderFetchFailingAfterNewerSuccess(t *testing.T) {
	type call struct {
		release chan struct{}
		batch   []entities.QuestionSnapshot
		err     error
	}

	first := call{release: make(chan struct{}), err: provider.ErrUnavailable}
	second := call{release: make(chan struct{}), batch: []entities.QuestionSnapshot{skyIsBlue}}
	calls := make(chan call, 2)
	calls <- first
	calls <- second

	started := make(chan struct{}, 2)
	p := providerFunc(func(context.Context) ([]entities.QuestionSnapshot, error) {
		c := <-calls
		started <- struct{}{}
		<-c.release
		return c.batch, c.err
	})
	s := NewQuestionStore(p)

	var (
		mu    sync.Mutex
		kinds []EventKind
	)
	s.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, e.Kind)
	})

	firstDone := make(chan error)
	go func() { firstDone <- s.GetQuestions(context.Background()) }()
	<-started

	secondDone := make(chan error)
	go func() { secondDone <- s.GetQuestions(context.Background()) }()
	<-started

	close(second.release)
	require.NoError(t, <-secondDone)

	close(first.release)
	err := <-firstDone
	assert.ErrorIs(t, err, ErrStaleFetch)
	assert.ErrorIs(t, err, provider.ErrUnavailable)

	assert.NoError(t, s.LastError())
	assert.Len(t, s.Questions(), 1)
	assert.Equal(t, uint64(1), s.Generation())

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, kinds, EventFetchFailed)
	assert.Equal(t, EventQuestionsReplaced, kinds[len(kinds)-1])
}

func TestGetQuestionsHonorsContext(t *testing.T) {
	p := providerFunc(func(ctx context.Context) ([]entities.QuestionSnapshot, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := NewQuestionStore(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.GetQuestions(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Questions())
}

func TestSkyIsBlueStoreScenario(t *testing.T) {
	s := NewQuestionStore(staticProvider([]entities.QuestionSnapshot{{
		Type:             "boolean",
		Difficulty:       "easy",
		Question:         "The sky is blue.",
		CorrectAnswer:    "True",
		IncorrectAnswers: []string{"False"},
	}}))

	require.NoError(t, s.GetQuestions(context.Background()))

	questions := s.Questions()
	require.Len(t, questions, 1)

	q := questions[0]
	assert.ElementsMatch(t, []string{"True", "False"}, q.AllAnswers(NewShuffler(11)))
	assert.False(t, q.IsCorrect())

	require.NoError(t, s.SetGuess(q.ID, "True"))
	assert.True(t, q.IsCorrect())
}
