package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/terra-clan/quiz-engine/internal/models"
	"github.com/terra-clan/quiz-engine/internal/storage"
)

// CreateAnswer posts an answer by actor to an existing question
func (s *Service) CreateAnswer(ctx context.Context, actor *models.Principal, req models.CreateAnswerRequest) (*models.Answer, error) {
	if actor == nil {
		return nil, ErrPrincipalNotFound
	}
	text := strings.TrimSpace(req.Answer)
	if req.QuestionID == "" || text == "" {
		return nil, fmt.Errorf("%w: questionID and answer are required", ErrInvalidInput)
	}

	now := s.now().UTC()
	a := &models.Answer{
		ID:         uuid.New().String(),
		QuestionID: req.QuestionID,
		UserID:     actor.ID,
		UserName:   actor.Name,
		Answer:     text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateAnswer(ctx, a); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListAnswers returns the answers to a question, oldest first
func (s *Service) ListAnswers(ctx context.Context, questionID string) ([]*models.Answer, error) {
	return s.repo.ListAnswers(ctx, questionID)
}

// UpdateAnswer replaces the text of actor's own answer
func (s *Service) UpdateAnswer(ctx context.Context, actor *models.Principal, id string, req models.UpdateAnswerRequest) (*models.Answer, error) {
	text := strings.TrimSpace(req.Answer)
	if text == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	a, err := s.repo.GetAnswer(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAnswerNotFound
	}
	if err := s.gate.Owner(actor, a.UserID); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateAnswer(ctx, id, text)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrAnswerNotFound
	}
	return updated, err
}

// DeleteAnswer deletes actor's own answer
func (s *Service) DeleteAnswer(ctx context.Context, actor *models.Principal, id string) error {
	a, err := s.repo.GetAnswer(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrAnswerNotFound
	}
	if err := s.gate.Owner(actor, a.UserID); err != nil {
		return err
	}

	if err := s.repo.DeleteAnswer(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrAnswerNotFound
		}
		return err
	}
	return nil
}

// CreateComment posts a comment by actor on an existing question
func (s *Service) CreateComment(ctx context.Context, actor *models.Principal, req models.CreateCommentRequest) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrPrincipalNotFound
	}
	text := strings.TrimSpace(req.Comment)
	if req.QuestionID == "" || text == "" {
		return nil, fmt.Errorf("%w: questionID and comment are required", ErrInvalidInput)
	}

	c := &models.Comment{
		ID:         uuid.New().String(),
		QuestionID: req.QuestionID,
		UserID:     actor.ID,
		UserName:   actor.Name,
		Comment:    text,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.CreateComment(ctx, c); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListComments returns the comments on a question, oldest first
func (s *Service) ListComments(ctx context.Context, questionID string) ([]*models.Comment, error) {
	return s.repo.ListComments(ctx, questionID)
}

// UpdateComment replaces the text of actor's own comment
func (s *Service) UpdateComment(ctx context.Context, actor *models.Principal, id string, req models.UpdateCommentRequest) (*models.Comment, error) {
	text := strings.TrimSpace(req.Comment)
	if text == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}

	c, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCommentNotFound
	}
	if err := s.gate.Owner(actor, c.UserID); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateComment(ctx, id, text)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCommentNotFound
	}
	return updated, err
}

// DeleteComment deletes actor's own comment
func (s *Service) DeleteComment(ctx context.Context, actor *models.Principal, id string) error {
	c, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCommentNotFound
	}
	if err := s.gate.Owner(actor, c.UserID); err != nil {
		return err
	}

	if err := s.repo.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}
