package models

import "time"

// Answer is a principal's answer to a question
type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionID"`
	UserID     string    `json:"userID"`
	UserName   string    `json:"userName"`
	Answer     string    `json:"answer"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Comment is a principal's comment on a question
type Comment struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionID"`
	UserID     string    `json:"userID"`
	UserName   string    `json:"userName"`
	Comment    string    `json:"comment"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateAnswerRequest represents a request to post an answer
type CreateAnswerRequest struct {
	QuestionID string `json:"questionID"`
	Answer     string `json:"answer"`
}

// UpdateAnswerRequest replaces an answer's text
type UpdateAnswerRequest struct {
	Answer string `json:"answer"`
}

// CreateCommentRequest represents a request to post a comment
type CreateCommentRequest struct {
	QuestionID string `json:"questionID"`
	Comment    string `json:"comment"`
}

// UpdateCommentRequest replaces a comment's text
type UpdateCommentRequest struct {
	Comment string `json:"comment"`
}
