package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// MemoryRepository is an in-process Repository used by tests and local runs
// without a database. Returned records are copies.
type MemoryRepository struct {
	mu         sync.RWMutex
	principals map[string]*models.Principal
	questions  map[string]*models.Question
	answers    map[string]*models.Answer
	comments   map[string]*models.Comment
}

// Ensure MemoryRepository implements Repository at compile time.
var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		principals: make(map[string]*models.Principal),
		questions:  make(map[string]*models.Question),
		answers:    make(map[string]*models.Answer),
		comments:   make(map[string]*models.Comment),
	}
}

// Ping always succeeds
func (m *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (m *MemoryRepository) Close() error {
	return nil
}

// --- Principals ---

func (m *MemoryRepository) CreatePrincipal(ctx context.Context, p *models.Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.principals[p.ID]; ok {
		return ErrConflict
	}
	for _, existing := range m.principals {
		if existing.Email == p.Email {
			return ErrConflict
		}
	}
	m.principals[p.ID] = clonePrincipal(p)
	return nil
}

func (m *MemoryRepository) GetPrincipal(ctx context.Context, id string) (*models.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.principals[id]
	if !ok {
		return nil, nil
	}
	return clonePrincipal(p), nil
}

func (m *MemoryRepository) GetPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.principals {
		if p.Email == email {
			return clonePrincipal(p), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) UpdatePrincipalRole(ctx context.Context, id string, role models.UserType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.principals[id]
	if !ok {
		return ErrNotFound
	}
	p.UserType = role
	return nil
}

func (m *MemoryRepository) UpdatePrincipalPassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.principals[id]
	if !ok {
		return ErrNotFound
	}
	p.PasswordHash = passwordHash
	return nil
}

func (m *MemoryRepository) DeletePrincipal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.principals[id]; !ok {
		return ErrNotFound
	}
	delete(m.principals, id)
	return nil
}

func (m *MemoryRepository) AddBookmark(ctx context.Context, principalID string, b models.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.principals[principalID]
	if !ok {
		return ErrNotFound
	}
	if p.HasBookmark(b.QuestionID) {
		return ErrConflict
	}
	p.Bookmarks = append(p.Bookmarks, b)
	return nil
}

func (m *MemoryRepository) RemoveBookmark(ctx context.Context, principalID, questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.principals[principalID]
	if !ok {
		return ErrNotFound
	}
	idx := slices.IndexFunc(p.Bookmarks, func(b models.Bookmark) bool {
		return b.QuestionID == questionID
	})
	if idx < 0 {
		return ErrNotFound
	}
	p.Bookmarks = slices.Delete(p.Bookmarks, idx, idx+1)
	return nil
}

// --- Questions ---

func (m *MemoryRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.questions[q.ID]; ok {
		return ErrConflict
	}
	m.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (m *MemoryRepository) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	return cloneQuestion(q), nil
}

func (m *MemoryRepository) UpdateQuestion(ctx context.Context, q *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.questions[q.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Question = q.Question
	existing.Answer = q.Answer
	existing.Skill = q.Skill
	existing.Difficulty = q.Difficulty
	existing.UpdatedAt = q.UpdatedAt
	return nil
}

func (m *MemoryRepository) DeleteQuestion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	delete(m.questions, id)

	for aid, a := range m.answers {
		if a.QuestionID == id {
			delete(m.answers, aid)
		}
	}
	for cid, c := range m.comments {
		if c.QuestionID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *MemoryRepository) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]*models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.matching(filter), nil
}

func (m *MemoryRepository) CountQuestions(ctx context.Context, filter models.QuestionFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, q := range m.questions {
		if filter.Match(q) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryRepository) QuestionAt(ctx context.Context, filter models.QuestionFilter, offset int) (*models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := m.matching(filter)
	if offset < 0 || offset >= len(matches) {
		return nil, nil
	}
	return matches[offset], nil
}

// matching returns sorted copies of questions passing the filter. Caller holds the lock.
func (m *MemoryRepository) matching(filter models.QuestionFilter) []*models.Question {
	result := make([]*models.Question, 0)
	for _, q := range m.questions {
		if filter.Match(q) {
			result = append(result, cloneQuestion(q))
		}
	}
	models.SortQuestions(result, filter.Order)
	return result
}

func (m *MemoryRepository) LikeQuestion(ctx context.Context, id, principalID string) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if q.LikedByPrincipal(principalID) {
		return nil, ErrConflict
	}
	q.Likes++
	q.LikedBy = append(q.LikedBy, principalID)
	q.UpdatedAt = time.Now()
	return cloneQuestion(q), nil
}

func (m *MemoryRepository) UnlikeQuestion(ctx context.Context, id, principalID string) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	idx := slices.Index(q.LikedBy, principalID)
	if idx < 0 {
		return nil, ErrConflict
	}
	q.Likes--
	q.LikedBy = slices.Delete(q.LikedBy, idx, idx+1)
	q.UpdatedAt = time.Now()
	return cloneQuestion(q), nil
}

func (m *MemoryRepository) MarkAttempted(ctx context.Context, id, principalID string) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !q.AttemptedByPrincipal(principalID) {
		q.AttemptedBy = append(q.AttemptedBy, principalID)
	}
	q.UpdatedAt = time.Now()
	return cloneQuestion(q), nil
}

// --- Answers ---

func (m *MemoryRepository) CreateAnswer(ctx context.Context, a *models.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.questions[a.QuestionID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.answers[a.ID]; ok {
		return ErrConflict
	}
	cp := *a
	m.answers[a.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetAnswer(ctx context.Context, id string) (*models.Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.answers[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) UpdateAnswer(ctx context.Context, id, text string) (*models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.answers[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Answer = text
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) DeleteAnswer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.answers[id]; !ok {
		return ErrNotFound
	}
	delete(m.answers, id)
	return nil
}

func (m *MemoryRepository) ListAnswers(ctx context.Context, questionID string) ([]*models.Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.Answer, 0)
	for _, a := range m.answers {
		if a.QuestionID == questionID {
			cp := *a
			result = append(result, &cp)
		}
	}
	slices.SortStableFunc(result, func(a, b *models.Answer) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result, nil
}

// --- Comments ---

func (m *MemoryRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.questions[c.QuestionID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.comments[c.ID]; ok {
		return ErrConflict
	}
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryRepository) UpdateComment(ctx context.Context, id, text string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Comment = text
	cp := *c
	return &cp, nil
}

func (m *MemoryRepository) DeleteComment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *MemoryRepository) ListComments(ctx context.Context, questionID string) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.Comment, 0)
	for _, c := range m.comments {
		if c.QuestionID == questionID {
			cp := *c
			result = append(result, &cp)
		}
	}
	slices.SortStableFunc(result, func(a, b *models.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result, nil
}

func clonePrincipal(p *models.Principal) *models.Principal {
	cp := *p
	cp.Bookmarks = append(make([]models.Bookmark, 0, len(p.Bookmarks)), p.Bookmarks...)
	return &cp
}

func cloneQuestion(q *models.Question) *models.Question {
	cp := *q
	cp.LikedBy = append(make([]string, 0, len(q.LikedBy)), q.LikedBy...)
	cp.AttemptedBy = append(make([]string, 0, len(q.AttemptedBy)), q.AttemptedBy...)
	return &cp
}
