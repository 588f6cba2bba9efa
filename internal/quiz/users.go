package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/models"
	"github.com/terra-clan/quiz-engine/internal/storage"
)

// Register creates a client account and signs it in
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if err := checkPasswordLength(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPrincipalByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	p := &models.Principal{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		UserType:     models.UserClient,
		Tag:          models.GenerateTag(name),
		Bookmarks:    []models.Bookmark{},
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.CreatePrincipal(ctx, p); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	slog.Info("user registered", "user_id", p.ID, "tag", p.Tag)

	return s.signIn(p)
}

// Login checks credentials and issues a new token
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	p, err := s.repo.GetPrincipalByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPrincipalNotFound
	}

	if err := s.checkPassword(p, req.Password); err != nil {
		return nil, err
	}

	return s.signIn(p)
}

func (s *Service) signIn(p *models.Principal) (*models.AuthResponse, error) {
	token, _, err := s.tokens.Issue(p.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: p}, nil
}

// GetPrincipal returns a principal by ID
func (s *Service) GetPrincipal(ctx context.Context, id string) (*models.Principal, error) {
	p, err := s.repo.GetPrincipal(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPrincipalNotFound
	}
	return p, nil
}

// AddBookmark bookmarks a question for userID. The actor must be that user or an admin.
func (s *Service) AddBookmark(ctx context.Context, actor *models.Principal, userID string, req models.BookmarkRequest) (*models.Principal, error) {
	if err := s.gate.SelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.QuestionID) == "" {
		return nil, fmt.Errorf("%w: questionID is required", ErrInvalidInput)
	}

	q, err := s.GetQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	bookmark := models.Bookmark{QuestionID: q.ID, Question: req.Question}
	if strings.TrimSpace(bookmark.Question) == "" {
		bookmark.Question = q.Question
	}

	if err := s.repo.AddBookmark(ctx, userID, bookmark); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return nil, ErrAlreadyBookmarked
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}

	return s.GetPrincipal(ctx, userID)
}

// RemoveBookmark removes a bookmark of userID. The actor must be that user or an admin.
func (s *Service) RemoveBookmark(ctx context.Context, actor *models.Principal, userID, questionID string) (*models.Principal, error) {
	if err := s.gate.SelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	if _, err := s.GetPrincipal(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveBookmark(ctx, userID, questionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}

	return s.GetPrincipal(ctx, userID)
}

// ChangePassword replaces the actor's password after checking the old one
func (s *Service) ChangePassword(ctx context.Context, actor *models.Principal, req models.ChangePasswordRequest) error {
	if actor == nil {
		return auth.ErrUnauthenticated
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return fmt.Errorf("%w: oldPassword and newPassword are required", ErrInvalidInput)
	}
	if err := checkPasswordLength(req.NewPassword); err != nil {
		return err
	}

	if err := s.checkPassword(actor, req.OldPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePrincipalPassword(ctx, actor.ID, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPrincipalNotFound
		}
		return err
	}

	slog.Info("password changed", "user_id", actor.ID)
	return nil
}

// Logout revokes the presented credential until it expires
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.TokenID == "" {
		return auth.ErrUnauthenticated
	}
	if s.revoked == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

// DeleteAccount deletes the actor's own account after a password check
func (s *Service) DeleteAccount(ctx context.Context, actor *models.Principal, id string, req models.DeleteAccountRequest) error {
	if err := s.gate.Owner(actor, id); err != nil {
		return err
	}
	if err := s.checkPassword(actor, req.Password); err != nil {
		return err
	}

	if err := s.repo.DeletePrincipal(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPrincipalNotFound
		}
		return err
	}

	slog.Info("user deleted", "user_id", id)
	return nil
}

// SetRole changes a principal's role. Admin only.
func (s *Service) SetRole(ctx context.Context, actor *models.Principal, id string, role models.UserType) (*models.Principal, error) {
	if err := s.gate.AdminOnly(actor); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown userType %q", ErrInvalidInput, role)
	}

	if err := s.repo.UpdatePrincipalRole(ctx, id, role); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}

	slog.Info("user role changed", "user_id", id, "role", role, "by", actor.ID)
	return s.GetPrincipal(ctx, id)
}

func (s *Service) checkPassword(p *models.Principal, password string) error {
	ok, err := auth.CheckPassword(p.PasswordHash, password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidPassword
	}
	return nil
}

func checkPasswordLength(password string) error {
	if len(password) > auth.MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
