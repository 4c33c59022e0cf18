// Package client is a Go consumer of the portal auth API. It keeps the
// session cookie in a jar, mirrors the signed-in account in process state,
// and exposes the auth operations as calls returning a uniform Result
// instead of raising.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"
)

// Account is the signed-in identity as the API reports it.
type Account struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// Result is the uniform outcome of every auth operation. Err is set when
// Success is false; Account is set when the operation yields a signed-in
// identity. Message carries the server's human-readable note when present.
type Result struct {
	Success bool
	Account *Account
	Message string
	Err     error
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// Client talks to the portal auth API. The zero value is not usable; create
// one with New. All methods are safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	account *Account
	loading bool

	notices     *noticeDeduper
	submissions *submissionKeys
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The cookie jar is
// installed on it if it has none, since the session lives in a cookie.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithNoticeTTL sets how long an identical notice is suppressed.
func WithNoticeTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.notices = newNoticeDeduper(ttl)
	}
}

// WithSubmissionTTL sets how long a repeated identical form submission
// reuses the same idempotency key. Should not exceed the server's dedup
// window.
func WithSubmissionTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.submissions = newSubmissionKeys(ttl)
	}
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080").
// The client starts in the loading state until Rehydrate settles.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:     baseURL,
		loading:     true,
		notices:     newNoticeDeduper(defaultNoticeTTL),
		submissions: newSubmissionKeys(defaultSubmissionTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Account returns the signed-in account, or nil when signed out.
func (c *Client) Account() *Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

// Loading reports whether the initial session rehydration is still pending.
func (c *Client) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Notify reports whether a notice with this content should be surfaced.
// Identical content repeated within the configured TTL is suppressed.
func (c *Client) Notify(content string) bool {
	return c.notices.Allow(content, time.Now())
}

// Rehydrate restores the session from the ambient cookie by asking the API
// who the caller is. It always clears the loading flag, even on failure: an
// unauthenticated answer settles the state to signed out.
func (c *Client) Rehydrate(ctx context.Context) Result {
	account, err := c.fetchMe(ctx)

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.account = account
	} else {
		c.account = nil
	}
	c.mu.Unlock()

	if err != nil {
		return Result{Err: err}
	}
	return Result{Success: true, Account: account}
}

// RegisterInput is the registration form. CompanyName and GSTNumber apply to
// recruiter signups only.
type RegisterInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone,omitempty"`
	RoleID      string `json:"role_id"`
	CompanyName string `json:"company_name,omitempty"`
	GSTNumber   string `json:"gst_number,omitempty"`
}

// Register creates an account. It does not sign the caller in; the session
// starts when the emailed code is verified. The call carries an idempotency
// key that is REUSED for repeats of the same form within the submission
// window, so a double-fired submit is deduplicated server-side instead of
// racing the email uniqueness constraint.
func (c *Client) Register(ctx context.Context, in RegisterInput) Result {
	payload, err := c.post(ctx, "/api/v1/auth/register", in,
		withIdempotencyKey(c.submissions.KeyFor(in, time.Now())))
	if err != nil {
		return Result{Err: err}
	}
	return Result{Success: true, Account: payload.User, Message: payload.Message}
}

// VerifyEmail submits the emailed code. On success the server issues the
// session cookie and the client records the account as signed in.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) Result {
	payload, err := c.post(ctx, "/api/v1/auth/verify-email", map[string]string{
		"email":     email,
		"email_otp": code,
	})
	if err != nil {
		return Result{Err: err}
	}
	c.setAccount(payload.User)
	return Result{Success: true, Account: payload.User, Message: payload.Message}
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	payload, err := c.post(ctx, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Result{Err: err}
	}
	c.setAccount(payload.User)
	return Result{Success: true, Account: payload.User, Message: payload.Message}
}

// GoogleLogin signs in with a Google ID token. An email with no existing
// account fails; it is never auto-created here.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) Result {
	payload, err := c.post(ctx, "/api/v1/auth/google-login", map[string]string{
		"token": idToken,
	})
	if err != nil {
		return Result{Err: err}
	}
	c.setAccount(payload.User)
	return Result{Success: true, Account: payload.User, Message: payload.Message}
}

// GoogleRegisterInput is the external-identity signup form.
type GoogleRegisterInput struct {
	IDToken     string `json:"token"`
	Role        string `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
	GSTNumber   string `json:"gst_number,omitempty"`
}

// GoogleRegister creates an account from a Google ID token and signs the
// caller in. Repeated submissions reuse an idempotency key like Register.
func (c *Client) GoogleRegister(ctx context.Context, in GoogleRegisterInput) Result {
	payload, err := c.post(ctx, "/api/v1/auth/google-register", in,
		withIdempotencyKey(c.submissions.KeyFor(in, time.Now())))
	if err != nil {
		return Result{Err: err}
	}
	c.setAccount(payload.User)
	return Result{Success: true, Account: payload.User, Message: payload.Message}
}

// ForgotPassword asks the server to email a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) Result {
	payload, err := c.post(ctx, "/api/v1/auth/forgot-password", map[string]string{
		"email": email,
	})
	if err != nil {
		return Result{Err: err}
	}
	return Result{Success: true, Message: payload.Message}
}

// ResetPassword replaces the password using the emailed code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) Result {
	payload, err := c.post(ctx, "/api/v1/auth/reset-password", map[string]any{
		"email":       email,
		"email_otp":   code,
		"newPassword": newPassword,
	})
	if err != nil {
		return Result{Err: err}
	}
	return Result{Success: true, Message: payload.Message}
}

// Logout discards the session. Local state is cleared even if the request
// fails; the cookie is stateless so the server holds nothing to revoke.
func (c *Client) Logout(ctx context.Context) Result {
	payload, err := c.post(ctx, "/api/v1/auth/logout", nil)

	c.mu.Lock()
	c.account = nil
	c.mu.Unlock()

	if err != nil {
		return Result{Err: err}
	}
	return Result{Success: true, Message: payload.Message}
}

func (c *Client) setAccount(a *Account) {
	c.mu.Lock()
	c.account = a
	c.loading = false
	c.mu.Unlock()
}

// authPayload is the data part of the server's response envelope for the
// auth endpoints.
type authPayload struct {
	Message string   `json:"message"`
	User    *Account `json:"user"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type requestOption func(*http.Request)

func withIdempotencyKey(key string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("X-Idempotency-Key", key)
	}
}

func (c *Client) post(ctx context.Context, path string, body any, opts ...requestOption) (*authPayload, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	var payload authPayload
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, fmt.Errorf("decode payload from %s: %w", path, err)
		}
	}
	return &payload, nil
}

// fetchMe is the "who am I" call behind Rehydrate. The /me payload is the
// account itself, not wrapped in a user key.
func (c *Client) fetchMe(ctx context.Context) (*Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /api/v1/auth/me: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	var account Account
	if err := json.Unmarshal(env.Data, &account); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &account, nil
}
