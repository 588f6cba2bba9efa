package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// Ensure PostgresRepository implements Repository at compile time.
var _ Repository = (*PostgresRepository)(nil)

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	} else {
		poolConfig.MinConns = 2
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Principals ---

const principalColumns = `id, name, email, password_hash, user_type, tag, created_at`

// CreatePrincipal inserts a new principal. Returns ErrConflict on a duplicate email.
func (r *PostgresRepository) CreatePrincipal(ctx context.Context, p *models.Principal) error {
	query := `
		INSERT INTO principals (id, name, email, password_hash, user_type, tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		p.PasswordHash,
		string(p.UserType),
		p.Tag,
		p.CreatedAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create principal: %w", err)
	}

	return nil
}

// GetPrincipal retrieves a principal and its bookmarks by ID
func (r *PostgresRepository) GetPrincipal(ctx context.Context, id string) (*models.Principal, error) {
	return r.getPrincipal(ctx, "id", id)
}

// GetPrincipalByEmail retrieves a principal by email
func (r *PostgresRepository) GetPrincipalByEmail(ctx context.Context, email string) (*models.Principal, error) {
	return r.getPrincipal(ctx, "email", email)
}

func (r *PostgresRepository) getPrincipal(ctx context.Context, field, value string) (*models.Principal, error) {
	query := fmt.Sprintf(`SELECT %s FROM principals WHERE %s = $1`, principalColumns, field)

	var p models.Principal
	var userType string

	err := r.pool.QueryRow(ctx, query, value).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PasswordHash,
		&userType,
		&p.Tag,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}
	p.UserType = models.UserType(userType)

	bookmarks, err := r.getBookmarks(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}
	p.Bookmarks = bookmarks

	return &p, nil
}

func (r *PostgresRepository) getBookmarks(ctx context.Context, principalID string) ([]models.Bookmark, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT question_id, question
		FROM bookmarks
		WHERE principal_id = $1
		ORDER BY created_at ASC
	`, principalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := make([]models.Bookmark, 0)
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.QuestionID, &b.Question); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}

	return bookmarks, rows.Err()
}

// UpdatePrincipalRole changes a principal's role
func (r *PostgresRepository) UpdatePrincipalRole(ctx context.Context, id string, role models.UserType) error {
	result, err := r.pool.Exec(ctx, `UPDATE principals SET user_type = $2 WHERE id = $1`, id, string(role))
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePrincipalPassword replaces a principal's password hash
func (r *PostgresRepository) UpdatePrincipalPassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `UPDATE principals SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePrincipal deletes a principal; bookmarks cascade
func (r *PostgresRepository) DeletePrincipal(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete principal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddBookmark stores a bookmark. Returns ErrConflict if it already exists and
// ErrNotFound if the principal does not exist.
func (r *PostgresRepository) AddBookmark(ctx context.Context, principalID string, b models.Bookmark) error {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO bookmarks (principal_id, question_id, question)
		VALUES ($1, $2, $3)
		ON CONFLICT (principal_id, question_id) DO NOTHING
	`, principalID, b.QuestionID, b.Question)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// RemoveBookmark deletes a bookmark
func (r *PostgresRepository) RemoveBookmark(ctx context.Context, principalID, questionID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM bookmarks WHERE principal_id = $1 AND question_id = $2`,
		principalID, questionID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Questions ---

const questionColumns = `id, question, answer, skill, difficulty, creator_id, creator_name, likes, liked_by, attempted_by, created_at, updated_at`

// CreateQuestion inserts a new question
func (r *PostgresRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	query := `
		INSERT INTO questions (id, question, answer, skill, difficulty, creator_id, creator_name, likes, liked_by, attempted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		q.ID,
		q.Question,
		q.Answer,
		q.Skill,
		string(q.Difficulty),
		q.CreatorID,
		q.CreatorName,
		q.Likes,
		nonNil(q.LikedBy),
		nonNil(q.AttemptedBy),
		q.CreatedAt,
		q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

// GetQuestion retrieves a question by ID
func (r *PostgresRepository) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE id = $1`, questionColumns)

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// UpdateQuestion updates the editable fields of a question
func (r *PostgresRepository) UpdateQuestion(ctx context.Context, q *models.Question) error {
	query := `
		UPDATE questions
		SET question = $2, answer = $3, skill = $4, difficulty = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		q.ID,
		q.Question,
		q.Answer,
		q.Skill,
		string(q.Difficulty),
		q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuestion deletes a question; answers and comments cascade
func (r *PostgresRepository) DeleteQuestion(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListQuestions returns questions matching the filter in the filter's order
func (r *PostgresRepository) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]*models.Question, error) {
	where, args := questionWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE %s ORDER BY %s`,
		questionColumns, where, questionOrderBy(filter.Order))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

// CountQuestions counts questions matching the filter
func (r *PostgresRepository) CountQuestions(ctx context.Context, filter models.QuestionFilter) (int, error) {
	where, args := questionWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM questions WHERE %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// QuestionAt returns the match at the given offset under the filter's ordering,
// or nil when the offset is past the end
func (r *PostgresRepository) QuestionAt(ctx context.Context, filter models.QuestionFilter, offset int) (*models.Question, error) {
	where, args := questionWhere(filter)
	args = append(args, offset)
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE %s ORDER BY %s LIMIT 1 OFFSET $%d`,
		questionColumns, where, questionOrderBy(filter.Order), len(args))

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question at offset %d: %w", offset, err)
	}
	return q, nil
}

// LikeQuestion increments likes and records the principal in one statement
func (r *PostgresRepository) LikeQuestion(ctx context.Context, id, principalID string) (*models.Question, error) {
	query := fmt.Sprintf(`
		UPDATE questions
		SET likes = likes + 1, liked_by = array_append(liked_by, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(liked_by))
		RETURNING %s
	`, questionColumns)

	return r.guardedQuestionUpdate(ctx, id, query, principalID)
}

// UnlikeQuestion decrements likes and removes the principal in one statement
func (r *PostgresRepository) UnlikeQuestion(ctx context.Context, id, principalID string) (*models.Question, error) {
	query := fmt.Sprintf(`
		UPDATE questions
		SET likes = likes - 1, liked_by = array_remove(liked_by, $2), updated_at = NOW()
		WHERE id = $1 AND $2 = ANY(liked_by)
		RETURNING %s
	`, questionColumns)

	return r.guardedQuestionUpdate(ctx, id, query, principalID)
}

// guardedQuestionUpdate runs an UPDATE whose WHERE clause carries a guard.
// No row back means either the question is missing or the guard failed.
func (r *PostgresRepository) guardedQuestionUpdate(ctx context.Context, id, query, principalID string) (*models.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id, principalID))
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update likes: %w", err)
	}

	existing, err := r.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}

// MarkAttempted adds the principal to attemptedBy if not already present
func (r *PostgresRepository) MarkAttempted(ctx context.Context, id, principalID string) (*models.Question, error) {
	query := fmt.Sprintf(`
		UPDATE questions
		SET attempted_by = CASE
				WHEN $2 = ANY(attempted_by) THEN attempted_by
				ELSE array_append(attempted_by, $2)
			END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, questionColumns)

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id, principalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to mark attempted: %w", err)
	}
	return q, nil
}

// questionWhere translates a filter into a WHERE clause and its arguments
func questionWhere(f models.QuestionFilter) (string, []interface{}) {
	conds := []string{"1=1"}
	args := make([]interface{}, 0)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AttemptedBy != "" {
		conds = append(conds, fmt.Sprintf("%s = ANY(attempted_by)", arg(f.AttemptedBy)))
	}

	if f.NotAttemptedBy != "" {
		conds = append(conds, fmt.Sprintf("NOT (%s = ANY(attempted_by))", arg(f.NotAttemptedBy)))
	}

	if len(f.Difficulties) > 0 {
		levels := make([]string, len(f.Difficulties))
		for i, d := range f.Difficulties {
			levels[i] = string(d)
		}
		conds = append(conds, fmt.Sprintf("difficulty = ANY(%s)", arg(levels)))
	}

	if f.HasSkillConstraint() {
		var alts []string
		if len(f.Skills) > 0 {
			alts = append(alts, fmt.Sprintf("skill = ANY(%s)", arg(f.Skills)))
		}
		if f.IncludeOthers {
			alts = append(alts, fmt.Sprintf("skill <> ALL(%s)", arg(nonNil(f.KnownSkills))))
		}
		conds = append(conds, "("+strings.Join(alts, " OR ")+")")
	}

	if len(f.SkillPatterns) > 0 {
		patterns := make([]string, len(f.SkillPatterns))
		for i, p := range f.SkillPatterns {
			patterns[i] = "%" + escapeLike(p) + "%"
		}
		conds = append(conds, fmt.Sprintf("skill ILIKE ANY(%s)", arg(patterns)))
	}

	if f.Text != "" {
		conds = append(conds, fmt.Sprintf("question ILIKE %s", arg("%"+escapeLike(f.Text)+"%")))
	}

	return strings.Join(conds, " AND "), args
}

// questionOrderBy mirrors models.SortQuestions
func questionOrderBy(order models.QuestionOrder) string {
	const tiebreak = "created_at ASC, id ASC"
	const rank = "CASE difficulty WHEN 'Easy' THEN 1 WHEN 'Medium' THEN 2 WHEN 'Hard' THEN 3 ELSE 4 END"

	switch order {
	case models.OrderPopularity:
		return "likes DESC, " + tiebreak
	case models.OrderDifficultyAsc:
		return rank + " ASC, " + tiebreak
	case models.OrderDifficultyDesc:
		return rank + " DESC, " + tiebreak
	default:
		return tiebreak
	}
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	var difficulty string

	err := row.Scan(
		&q.ID,
		&q.Question,
		&q.Answer,
		&q.Skill,
		&difficulty,
		&q.CreatorID,
		&q.CreatorName,
		&q.Likes,
		&q.LikedBy,
		&q.AttemptedBy,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Difficulty = models.Difficulty(difficulty)
	return &q, nil
}

// --- Answers ---

const answerColumns = `id, question_id, user_id, user_name, answer, likes, created_at, updated_at`

// CreateAnswer inserts a new answer. Returns ErrNotFound if the question does not exist.
func (r *PostgresRepository) CreateAnswer(ctx context.Context, a *models.Answer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO answers (id, question_id, user_id, user_name, answer, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.QuestionID, a.UserID, a.UserName, a.Answer, a.Likes, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

// GetAnswer retrieves an answer by ID
func (r *PostgresRepository) GetAnswer(ctx context.Context, id string) (*models.Answer, error) {
	query := fmt.Sprintf(`SELECT %s FROM answers WHERE id = $1`, answerColumns)

	a, err := scanAnswer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get answer: %w", err)
	}
	return a, nil
}

// UpdateAnswer replaces the answer text
func (r *PostgresRepository) UpdateAnswer(ctx context.Context, id, text string) (*models.Answer, error) {
	query := fmt.Sprintf(`
		UPDATE answers SET answer = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, answerColumns)

	a, err := scanAnswer(r.pool.QueryRow(ctx, query, id, text))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}
	return a, nil
}

// DeleteAnswer deletes an answer by ID
func (r *PostgresRepository) DeleteAnswer(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAnswers returns answers for a question, oldest first
func (r *PostgresRepository) ListAnswers(ctx context.Context, questionID string) ([]*models.Answer, error) {
	query := fmt.Sprintf(`SELECT %s FROM answers WHERE question_id = $1 ORDER BY created_at ASC, id ASC`, answerColumns)

	rows, err := r.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	answers := make([]*models.Answer, 0)
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}

	return answers, rows.Err()
}

func scanAnswer(row pgx.Row) (*models.Answer, error) {
	var a models.Answer
	err := row.Scan(
		&a.ID,
		&a.QuestionID,
		&a.UserID,
		&a.UserName,
		&a.Answer,
		&a.Likes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// --- Comments ---

const commentColumns = `id, question_id, user_id, user_name, comment, likes, created_at`

// CreateComment inserts a new comment. Returns ErrNotFound if the question does not exist.
func (r *PostgresRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, question_id, user_id, user_name, comment, likes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.QuestionID, c.UserID, c.UserName, c.Comment, c.Likes, c.CreatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetComment retrieves a comment by ID
func (r *PostgresRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE id = $1`, commentColumns)

	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// UpdateComment replaces the comment text
func (r *PostgresRepository) UpdateComment(ctx context.Context, id, text string) (*models.Comment, error) {
	query := fmt.Sprintf(`UPDATE comments SET comment = $2 WHERE id = $1 RETURNING %s`, commentColumns)

	c, err := scanComment(r.pool.QueryRow(ctx, query, id, text))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return c, nil
}

// DeleteComment deletes a comment by ID
func (r *PostgresRepository) DeleteComment(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListComments returns comments for a question, oldest first
func (r *PostgresRepository) ListComments(ctx context.Context, questionID string) ([]*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE question_id = $1 ORDER BY created_at ASC, id ASC`, commentColumns)

	rows, err := r.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(
		&c.ID,
		&c.QuestionID,
		&c.UserID,
		&c.UserName,
		&c.Comment,
		&c.Likes,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Helper functions

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// nonNil keeps NULL out of NOT NULL array columns
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
