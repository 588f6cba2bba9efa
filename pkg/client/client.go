package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terra-clan/quiz-engine/internal/models"
)

// Client is a Go SDK for the quiz-engine API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the credential sent in the Authorization header
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new quiz-engine client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithCredential returns a copy of the client that authenticates with token
func (c *Client) WithCredential(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// APIError is returned for responses with isError set
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Filter selects questions for QueryQuestions and RandomQuestion
type Filter struct {
	Sort       string   // po, asc or desc
	Status     string   // a or not
	Difficulty string   // e, m or h
	Skills     []string // aliases, skill names or "others"
}

func (f Filter) values() url.Values {
	v := url.Values{}
	if f.Sort != "" {
		v.Set("sort", f.Sort)
	}
	if f.Status != "" {
		v.Set("s", f.Status)
	}
	if f.Difficulty != "" {
		v.Set("d", f.Difficulty)
	}
	for _, skill := range f.Skills {
		v.Add("skills", skill)
	}
	return v
}

type authResult struct {
	Token string            `json:"token"`
	User  *models.Principal `json:"user"`
}

type userResult struct {
	User *models.Principal `json:"user"`
}

type questionResult struct {
	Question *models.Question `json:"question"`
}

type questionsResult struct {
	Questions []*models.Question `json:"questions"`
}

// Register creates an account. The returned token is not stored on c.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var result authResult
	if err := c.do(ctx, http.MethodPost, "/user/register", req, &result); err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: result.Token, User: result.User}, nil
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var result authResult
	if err := c.do(ctx, http.MethodPost, "/user/login", req, &result); err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: result.Token, User: result.User}, nil
}

// SetRole changes a user's role. Requires an admin credential.
func (c *Client) SetRole(ctx context.Context, userID string, role models.UserType) (*models.Principal, error) {
	var result userResult
	err := c.do(ctx, http.MethodPut, "/user/role/"+url.PathEscape(userID), models.SetRoleRequest{UserType: role}, &result)
	if err != nil {
		return nil, err
	}
	return result.User, nil
}

// AddBookmark bookmarks a question for a user
func (c *Client) AddBookmark(ctx context.Context, userID string, req models.BookmarkRequest) (*models.Principal, error) {
	var result userResult
	if err := c.do(ctx, http.MethodPut, "/user/addBookmark/"+url.PathEscape(userID), req, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// RemoveBookmark removes a user's bookmark
func (c *Client) RemoveBookmark(ctx context.Context, userID, questionID string) (*models.Principal, error) {
	path := fmt.Sprintf("/user/removeBookmark/%s/%s", url.PathEscape(userID), url.PathEscape(questionID))

	var result userResult
	if err := c.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return result.User, nil
}

// Logout revokes the client's credential
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/user/logout", nil, nil)
}

// AddQuestion creates a question. Requires a creator or admin credential.
func (c *Client) AddQuestion(ctx context.Context, req models.CreateQuestionRequest) (*models.Question, error) {
	var result questionResult
	if err := c.do(ctx, http.MethodPost, "/question/add", req, &result); err != nil {
		return nil, err
	}
	return result.Question, nil
}

// GetQuestion retrieves a question by ID
func (c *Client) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var result questionResult
	if err := c.do(ctx, http.MethodGet, "/question/getById/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return result.Question, nil
}

// DeleteQuestion deletes a question created by the caller
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/question/delete/"+url.PathEscape(id), nil, nil)
}

// QueryQuestions lists questions matching f
func (c *Client) QueryQuestions(ctx context.Context, f Filter) ([]*models.Question, error) {
	path := "/question/byQuery"
	if q := f.values().Encode(); q != "" {
		path += "?" + q
	}

	var result questionsResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Questions, nil
}

// RandomQuestion picks one question matching f
func (c *Client) RandomQuestion(ctx context.Context, f Filter) (*models.Question, error) {
	path := "/question/random"
	if q := f.values().Encode(); q != "" {
		path += "?" + q
	}

	var result questionResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Question, nil
}

// Like adds or removes the caller's like
func (c *Client) Like(ctx context.Context, id string, action models.LikeAction) (*models.Question, error) {
	var result questionResult
	err := c.do(ctx, http.MethodPut, "/question/update/like/"+url.PathEscape(id), models.LikeRequest{Action: action}, &result)
	if err != nil {
		return nil, err
	}
	return result.Question, nil
}

// MarkAttempted records that the caller attempted a question
func (c *Client) MarkAttempted(ctx context.Context, id string) (*models.Question, error) {
	var result questionResult
	if err := c.do(ctx, http.MethodPut, "/question/update/attempted/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return result.Question, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// do performs an HTTP request and decodes the response envelope into out
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope struct {
		IsError bool   `json:"isError"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if envelope.IsError || resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
