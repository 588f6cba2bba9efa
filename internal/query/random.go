package query

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// ErrNoCandidates is returned when no question matches a random request
var ErrNoCandidates = errors.New("no questions match the filter")

const maxSelectAttempts = 3

// CandidateSource counts and fetches questions under a stable ordering
type CandidateSource interface {
	CountQuestions(ctx context.Context, filter models.QuestionFilter) (int, error)
	QuestionAt(ctx context.Context, filter models.QuestionFilter, offset int) (*models.Question, error)
}

// RandomSelector picks one matching question uniformly: it counts matches,
// draws an offset and fetches the question at that offset.
type RandomSelector struct {
	source CandidateSource
	intn   func(n int) int
}

// NewRandomSelector creates a selector over source
func NewRandomSelector(source CandidateSource) *RandomSelector {
	return &RandomSelector{source: source, intn: rand.IntN}
}

// WithIntn replaces the offset generator. Used by tests.
func (s *RandomSelector) WithIntn(intn func(n int) int) *RandomSelector {
	s.intn = intn
	return s
}

// Select returns one question matching filter. A row deleted between count and
// fetch triggers a recount.
func (s *RandomSelector) Select(ctx context.Context, filter models.QuestionFilter) (*models.Question, error) {
	for attempt := 0; attempt < maxSelectAttempts; attempt++ {
		count, err := s.source.CountQuestions(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count candidates: %w", err)
		}
		if count == 0 {
			return nil, ErrNoCandidates
		}

		q, err := s.source.QuestionAt(ctx, filter, s.intn(count))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch candidate: %w", err)
		}
		if q != nil {
			return q, nil
		}
	}

	return nil, ErrNoCandidates
}
