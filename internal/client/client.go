// ABOUTME: HTTP client for the taskdock REST API with session handling
// ABOUTME: Attaches the stored bearer token and clears it on any 401 response

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrSessionExpired is returned when the server rejects the stored token.
// The token has already been cleared by the time callers see this; the only
// recovery is logging in again.
var ErrSessionExpired = errors.New("session expired, log in again")

// User is a user's public fields as returned by the API.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Task is a task as returned by the API.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DueDate   string `json:"dueDate,omitempty"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// TaskQuery holds the optional filters for listing tasks.
type TaskQuery struct {
	Search    string
	Completed *bool
	Date      string // YYYY-MM-DD
}

// Client talks to the taskdock API. Protected calls read the token from the
// TokenStore on every request, so a login in another process is picked up.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  *TokenStore
}

// New creates a client for the API at baseURL, with session state in tokens.
func New(baseURL string, tokens *TokenStore) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

// apiError is the JSON error body the server sends.
type apiError struct {
	Error string `json:"error"`
}

// do performs an API request. When authed is true the stored bearer token is
// attached; a 401 response then clears the stored token and surfaces as
// ErrSessionExpired, regardless of which endpoint produced it.
func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		token, err := c.tokens.Load()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		_ = c.tokens.Clear()
		return ErrSessionExpired
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// tokenResponse is the body of successful register/login calls.
type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", false,
		map[string]string{"name": name, "email": email, "password": password}, &resp)
	if err != nil {
		return err
	}
	return c.tokens.Save(resp.Token)
}

// Login verifies credentials and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", false,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return err
	}
	return c.tokens.Save(resp.Token)
}

// Logout discards the stored token. The token itself stays valid until it
// expires; the server keeps no session state to revoke.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// Me returns the authenticated user's public fields.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Tasks lists the authenticated user's tasks matching the query.
func (c *Client) Tasks(ctx context.Context, query TaskQuery) ([]Task, error) {
	params := url.Values{}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Completed != nil {
		params.Set("completed", strconv.FormatBool(*query.Completed))
	}
	if query.Date != "" {
		params.Set("date", query.Date)
	}

	path := "/api/tasks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var tasks []Task
	if err := c.do(ctx, http.MethodGet, path, true, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task. dueDate may be empty, RFC 3339, or YYYY-MM-DD.
func (c *Client) CreateTask(ctx context.Context, title, dueDate string) (*Task, error) {
	body := map[string]string{"title": title}
	if dueDate != "" {
		body["dueDate"] = dueDate
	}

	var task Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", true, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetCompleted sets a task's completion flag.
func (c *Client) SetCompleted(ctx context.Context, taskID string, completed bool) (*Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(taskID), true,
		map[string]bool{"completed": completed}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID), true, nil, nil)
}

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates name and/or email. Nil fields are left unchanged.
func (c *Client) UpdateProfile(ctx context.Context, name, email *string) (*User, error) {
	body := make(map[string]string)
	if name != nil {
		body["name"] = *name
	}
	if email != nil {
		body["email"] = *email
	}

	var user User
	if err := c.do(ctx, http.MethodPut, "/api/user/profile", true, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Health checks the server's liveness endpoint. Unauthenticated.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", false, nil, nil)
}
