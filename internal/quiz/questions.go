package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/terra-clan/quiz-engine/internal/models"
	"github.com/terra-clan/quiz-engine/internal/query"
	"github.com/terra-clan/quiz-engine/internal/storage"
)

// CreateQuestion adds a question authored by actor. Requires creator or admin.
func (s *Service) CreateQuestion(ctx context.Context, actor *models.Principal, req models.CreateQuestionRequest) (*models.Question, error) {
	if err := s.gate.AuthorizedUser(actor); err != nil {
		return nil, err
	}

	q := &models.Question{
		Question:   strings.TrimSpace(req.Question),
		Answer:     strings.TrimSpace(req.Answer),
		Skill:      strings.TrimSpace(req.Skill),
		Difficulty: req.Difficulty,
	}
	if q.Difficulty == "" {
		q.Difficulty = models.DifficultyMedium
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	q.ID = uuid.New().String()
	q.CreatorID = actor.ID
	q.CreatorName = actor.Name
	q.LikedBy = []string{}
	q.AttemptedBy = []string{}
	q.CreatedAt = now
	q.UpdatedAt = now

	if err := s.repo.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}

	slog.Info("question created", "question_id", q.ID, "creator_id", actor.ID, "skill", q.Skill)
	return q, nil
}

// GetQuestion returns a question by ID
func (s *Service) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	q, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// ListQuestions returns every question, oldest first
func (s *Service) ListQuestions(ctx context.Context) ([]*models.Question, error) {
	return s.repo.ListQuestions(ctx, models.QuestionFilter{})
}

// SearchQuestions matches term against question text, ignoring case.
// No match is ErrQuestionNotFound.
func (s *Service) SearchQuestions(ctx context.Context, term string) ([]*models.Question, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrInvalidInput)
	}

	questions, err := s.repo.ListQuestions(ctx, models.QuestionFilter{Text: term})
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrQuestionNotFound
	}
	return questions, nil
}

// QuestionsBySkill returns questions whose skill contains any of the given
// values, ignoring case. No values returns every question.
func (s *Service) QuestionsBySkill(ctx context.Context, skills []string) ([]*models.Question, error) {
	return s.repo.ListQuestions(ctx, models.QuestionFilter{SkillPatterns: skills})
}

// QuestionsByLevels returns questions at any of the given difficulties.
// Unknown level names match nothing; no levels at all matches every question.
// No match is ErrQuestionNotFound.
func (s *Service) QuestionsByLevels(ctx context.Context, levels []string) ([]*models.Question, error) {
	var filter models.QuestionFilter
	for _, level := range levels {
		if d, ok := parseDifficulty(level); ok {
			filter.Difficulties = append(filter.Difficulties, d)
		}
	}
	if len(levels) > 0 && len(filter.Difficulties) == 0 {
		return nil, ErrQuestionNotFound
	}

	questions, err := s.repo.ListQuestions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrQuestionNotFound
	}
	return questions, nil
}

// QueryQuestions lists questions matching a filter request for actor
func (s *Service) QueryQuestions(ctx context.Context, actor *models.Principal, req query.Request) ([]*models.Question, error) {
	if actor == nil {
		return nil, ErrPrincipalNotFound
	}
	return s.repo.ListQuestions(ctx, s.builder.Build(req, actor.ID))
}

// RandomQuestion picks one question matching a filter request for actor.
// No candidates is query.ErrNoCandidates.
func (s *Service) RandomQuestion(ctx context.Context, actor *models.Principal, req query.Request) (*models.Question, error) {
	if actor == nil {
		return nil, ErrPrincipalNotFound
	}
	return s.random.Select(ctx, s.builder.Build(req, actor.ID))
}

// UpdateQuestion applies a partial update. Requires creator or admin.
func (s *Service) UpdateQuestion(ctx context.Context, actor *models.Principal, id string, req models.UpdateQuestionRequest) (*models.Question, error) {
	if err := s.gate.AuthorizedUser(actor); err != nil {
		return nil, err
	}

	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Question != nil {
		q.Question = strings.TrimSpace(*req.Question)
	}
	if req.Answer != nil {
		q.Answer = strings.TrimSpace(*req.Answer)
	}
	if req.Skill != nil {
		q.Skill = strings.TrimSpace(*req.Skill)
	}
	if req.Difficulty != nil {
		q.Difficulty = *req.Difficulty
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	q.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateQuestion(ctx, q); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	return q, nil
}

// MarkAttempted records that actor attempted the question. Idempotent.
func (s *Service) MarkAttempted(ctx context.Context, actor *models.Principal, id string) (*models.Question, error) {
	if actor == nil {
		return nil, ErrPrincipalNotFound
	}

	q, err := s.repo.MarkAttempted(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// Like adds or removes actor's like. A second like is ErrAlreadyLiked and an
// unlike without a like is ErrNotLiked; neither changes the counter.
func (s *Service) Like(ctx context.Context, actor *models.Principal, id string, action models.LikeAction) (*models.Question, error) {
	if actor == nil {
		return nil, ErrPrincipalNotFound
	}

	var (
		q        *models.Question
		err      error
		conflict error
	)

	switch action {
	case models.LikeIncrement:
		q, err = s.repo.LikeQuestion(ctx, id, actor.ID)
		conflict = ErrAlreadyLiked
	case models.LikeDecrement:
		q, err = s.repo.UnlikeQuestion(ctx, id, actor.ID)
		conflict = ErrNotLiked
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrQuestionNotFound
		case errors.Is(err, storage.ErrConflict):
			return nil, conflict
		}
		return nil, err
	}
	return q, nil
}

// DeleteQuestion deletes a question. Requires creator or admin and ownership;
// admins cannot delete questions they did not create.
func (s *Service) DeleteQuestion(ctx context.Context, actor *models.Principal, id string) error {
	if err := s.gate.AuthorizedUser(actor); err != nil {
		return err
	}

	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return err
	}

	if err := s.gate.Owner(actor, q.CreatorID); err != nil {
		slog.Warn("question delete denied", "question_id", id, "user_id", actor.ID, "creator_id", q.CreatorID)
		return err
	}

	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	slog.Info("question deleted", "question_id", id, "user_id", actor.ID)
	return nil
}

func validateQuestion(q *models.Question) error {
	if q.Question == "" || q.Answer == "" || q.Skill == "" {
		return fmt.Errorf("%w: question, answer and skill are required", ErrInvalidInput)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty must be Easy, Medium or Hard", ErrInvalidInput)
	}
	return nil
}

func parseDifficulty(s string) (models.Difficulty, bool) {
	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}
