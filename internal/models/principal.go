package models

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// UserType is the role of a principal
type UserType string

const (
	UserClient  UserType = "client"
	UserCreator UserType = "creator"
	UserAdmin   UserType = "admin"
)

// Valid reports whether t is one of the known roles
func (t UserType) Valid() bool {
	switch t {
	case UserClient, UserCreator, UserAdmin:
		return true
	}
	return false
}

// Principal represents a registered user account
type Principal struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize
	UserType     UserType   `json:"userType"`
	Tag          string     `json:"tag"`
	Bookmarks    []Bookmark `json:"bookmarks"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Bookmark is a question saved by a principal
type Bookmark struct {
	QuestionID string `json:"questionID"`
	Question   string `json:"question"`
}

// HasRole checks if the principal holds any of the given roles
func (p *Principal) HasRole(roles ...UserType) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.UserType == r {
			return true
		}
	}
	return false
}

// HasBookmark reports whether questionID is already bookmarked
func (p *Principal) HasBookmark(questionID string) bool {
	for _, b := range p.Bookmarks {
		if b.QuestionID == questionID {
			return true
		}
	}
	return false
}

// GenerateTag builds a display tag like "@jane4821" from the first word of name
func GenerateTag(name string) string {
	first := ""
	if fields := strings.Fields(name); len(fields) > 0 {
		first = strings.ToLower(fields[0])
	}
	return fmt.Sprintf("@%s%d", first, 1000+rand.IntN(9000))
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after register and login
type AuthResponse struct {
	Token string     `json:"token"`
	User  *Principal `json:"user"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// DeleteAccountRequest confirms account deletion with the current password
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// SetRoleRequest changes a principal's role
type SetRoleRequest struct {
	UserType UserType `json:"userType"`
}

// BookmarkRequest adds a bookmark
type BookmarkRequest struct {
	QuestionID string `json:"questionID"`
	Question   string `json:"question"`
}
