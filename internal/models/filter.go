package models

import (
	"slices"
	"sort"
	"strings"
)

// QuestionOrder selects the ordering of a question listing
type QuestionOrder string

const (
	OrderCreated        QuestionOrder = ""                // oldest first
	OrderPopularity     QuestionOrder = "popularity"      // most liked first
	OrderDifficultyAsc  QuestionOrder = "difficulty_asc"  // Easy, Medium, Hard
	OrderDifficultyDesc QuestionOrder = "difficulty_desc" // Hard, Medium, Easy
)

// QuestionFilter is a normalized predicate over questions plus an ordering.
// All populated constraints are ANDed; zero values impose nothing.
type QuestionFilter struct {
	// AttemptedBy keeps questions whose attemptedBy contains this principal
	AttemptedBy string
	// NotAttemptedBy keeps questions whose attemptedBy lacks this principal
	NotAttemptedBy string

	// Difficulties keeps questions matching any of the levels
	Difficulties []Difficulty

	// Skills keeps questions whose skill equals one of the values.
	// With IncludeOthers, questions whose skill is outside KnownSkills match too.
	Skills        []string
	IncludeOthers bool
	KnownSkills   []string

	// SkillPatterns keeps questions whose skill contains any pattern, ignoring case
	SkillPatterns []string

	// Text keeps questions whose text contains the term, ignoring case
	Text string

	Order QuestionOrder
}

// HasSkillConstraint reports whether the exact-skill/others constraint is active
func (f QuestionFilter) HasSkillConstraint() bool {
	return len(f.Skills) > 0 || f.IncludeOthers
}

// Match evaluates the predicate against a single question
func (f QuestionFilter) Match(q *Question) bool {
	if f.AttemptedBy != "" && !q.AttemptedByPrincipal(f.AttemptedBy) {
		return false
	}
	if f.NotAttemptedBy != "" && q.AttemptedByPrincipal(f.NotAttemptedBy) {
		return false
	}
	if len(f.Difficulties) > 0 && !slices.Contains(f.Difficulties, q.Difficulty) {
		return false
	}
	if f.HasSkillConstraint() && !f.matchSkill(q.Skill) {
		return false
	}
	if len(f.SkillPatterns) > 0 && !containsAnyFold(q.Skill, f.SkillPatterns) {
		return false
	}
	if f.Text != "" && !strings.Contains(strings.ToLower(q.Question), strings.ToLower(f.Text)) {
		return false
	}
	return true
}

func (f QuestionFilter) matchSkill(skill string) bool {
	if slices.Contains(f.Skills, skill) {
		return true
	}
	return f.IncludeOthers && !slices.Contains(f.KnownSkills, skill)
}

func containsAnyFold(s string, patterns []string) bool {
	lower := strings.ToLower(s)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// SortQuestions orders questions in place. Ties fall back to creation time and ID
// so the ordering is total and stable across calls.
func SortQuestions(questions []*Question, order QuestionOrder) {
	sort.SliceStable(questions, func(i, j int) bool {
		a, b := questions[i], questions[j]
		switch order {
		case OrderPopularity:
			if a.Likes != b.Likes {
				return a.Likes > b.Likes
			}
		case OrderDifficultyAsc:
			if a.Difficulty.Rank() != b.Difficulty.Rank() {
				return a.Difficulty.Rank() < b.Difficulty.Rank()
			}
		case OrderDifficultyDesc:
			if a.Difficulty.Rank() != b.Difficulty.Rank() {
				return a.Difficulty.Rank() > b.Difficulty.Rank()
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
