package models

import (
	"slices"
	"time"
)

// Difficulty represents how hard a question is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known levels
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Rank orders difficulties from Easy (1) to Hard (3); unknown values sort last
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 4
}

// Question represents a quiz item
type Question struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer"`
	Skill       string     `json:"skill"`
	Difficulty  Difficulty `json:"difficulty"`
	CreatorID   string     `json:"creatorID"`
	CreatorName string     `json:"creatorName"`
	Likes       int        `json:"likes"`
	LikedBy     []string   `json:"likedBy"`
	AttemptedBy []string   `json:"attemptedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// LikedByPrincipal reports whether principalID already liked the question
func (q *Question) LikedByPrincipal(principalID string) bool {
	return slices.Contains(q.LikedBy, principalID)
}

// AttemptedByPrincipal reports whether principalID attempted the question
func (q *Question) AttemptedByPrincipal(principalID string) bool {
	return slices.Contains(q.AttemptedBy, principalID)
}

// CreateQuestionRequest represents a request to add a question
type CreateQuestionRequest struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Skill      string     `json:"skill"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// UpdateQuestionRequest is a partial update; nil fields are left untouched
type UpdateQuestionRequest struct {
	Question   *string     `json:"question,omitempty"`
	Answer     *string     `json:"answer,omitempty"`
	Skill      *string     `json:"skill,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
}

// LikeAction is the direction of a like update
type LikeAction string

const (
	LikeIncrement LikeAction = "increment"
	LikeDecrement LikeAction = "decrement"
)

// LikeRequest represents a like/unlike request
type LikeRequest struct {
	Action LikeAction `json:"action"`
}
