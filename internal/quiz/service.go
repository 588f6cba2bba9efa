// Package quiz implements the quiz operations: accounts, bookmarks, questions,
// likes, attempts, answers and comments.
package quiz

import (
	"errors"
	"time"

	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/query"
	"github.com/terra-clan/quiz-engine/internal/storage"
)

// Common errors
var (
	ErrPrincipalNotFound = errors.New("user not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrAnswerNotFound    = errors.New("answer not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrBookmarkNotFound  = errors.New("bookmark not found")

	ErrEmailTaken        = errors.New("email already registered")
	ErrAlreadyLiked      = errors.New("you cannot like one question multiple times")
	ErrNotLiked          = errors.New("question was not liked by you")
	ErrAlreadyBookmarked = errors.New("question already bookmarked")

	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidPassword = errors.New("wrong password")
)

// Service implements quiz operations on top of a repository
type Service struct {
	repo       storage.Repository
	tokens     *auth.TokenIssuer
	revoked    auth.RevocationStore
	gate       auth.Gate
	builder    *query.Builder
	random     *query.RandomSelector
	bcryptCost int
	now        func() time.Time
}

// NewService creates a quiz service
func NewService(
	repo storage.Repository,
	tokens *auth.TokenIssuer,
	revoked auth.RevocationStore,
	builder *query.Builder,
	bcryptCost int,
) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		revoked:    revoked,
		builder:    builder,
		random:     query.NewRandomSelector(repo),
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// WithRandomSelector replaces the random selection policy. Used by tests.
func (s *Service) WithRandomSelector(sel *query.RandomSelector) *Service {
	s.random = sel
	return s
}
