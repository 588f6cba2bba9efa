package storage

import (
	"context"
	"errors"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// Sentinel errors for storage mutations. Getters return (nil, nil) when a
// record does not exist.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Repository defines the interface for quiz persistence
type Repository interface {
	// Principals
	CreatePrincipal(ctx context.Context, p *models.Principal) error
	GetPrincipal(ctx context.Context, id string) (*models.Principal, error)
	GetPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error)
	UpdatePrincipalRole(ctx context.Context, id string, role models.UserType) error
	UpdatePrincipalPassword(ctx context.Context, id, passwordHash string) error
	DeletePrincipal(ctx context.Context, id string) error
	AddBookmark(ctx context.Context, principalID string, b models.Bookmark) error
	RemoveBookmark(ctx context.Context, principalID, questionID string) error

	// Questions
	CreateQuestion(ctx context.Context, q *models.Question) error
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	UpdateQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]*models.Question, error)
	CountQuestions(ctx context.Context, filter models.QuestionFilter) (int, error)
	QuestionAt(ctx context.Context, filter models.QuestionFilter, offset int) (*models.Question, error)

	// Atomic like/attempt updates. LikeQuestion returns ErrConflict when the
	// principal already liked the question; UnlikeQuestion when it has not.
	LikeQuestion(ctx context.Context, id, principalID string) (*models.Question, error)
	UnlikeQuestion(ctx context.Context, id, principalID string) (*models.Question, error)
	MarkAttempted(ctx context.Context, id, principalID string) (*models.Question, error)

	// Answers
	CreateAnswer(ctx context.Context, a *models.Answer) error
	GetAnswer(ctx context.Context, id string) (*models.Answer, error)
	UpdateAnswer(ctx context.Context, id, text string) (*models.Answer, error)
	DeleteAnswer(ctx context.Context, id string) error
	ListAnswers(ctx context.Context, questionID string) ([]*models.Answer, error)

	// Comments
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	UpdateComment(ctx context.Context, id, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, questionID string) ([]*models.Comment, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
