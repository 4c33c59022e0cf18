package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelane/jobportal/pkg/middleware"
)

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c, srv
}

func TestClient_StartsLoading(t *testing.T) {
	c, _ := newTestClient(t, http.NewServeMux())
	assert.True(t, c.Loading())
	assert.Nil(t, c.Account())
}

func TestRehydrate_SignedIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", jsonHandler(http.StatusOK,
		`{"data":{"id":"u1","email":"a@x.com","role":"jobseeker","email_verified":true}}`))

	c, _ := newTestClient(t, mux)
	res := c.Rehydrate(context.Background())

	require.True(t, res.Success)
	assert.False(t, c.Loading())
	require.NotNil(t, c.Account())
	assert.Equal(t, "a@x.com", c.Account().Email)
	assert.Equal(t, "jobseeker", c.Account().Role)
}

func TestRehydrate_Unauthenticated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/me", jsonHandler(http.StatusUnauthorized,
		`{"error":{"code":"UNAUTHORIZED","message":"authentication required"}}`))

	c, _ := newTestClient(t, mux)
	res := c.Rehydrate(context.Background())

	assert.False(t, res.Success)
	assert.False(t, c.Loading(), "rehydration must settle even when signed out")
	assert.Nil(t, c.Account())

	var apiErr *APIError
	require.ErrorAs(t, res.Err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestLogin_SetsAccountAndCarriesCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session-jwt", Path: "/"})
		jsonHandler(http.StatusOK,
			`{"data":{"message":"logged in","user":{"id":"u1","email":"a@x.com","role":"recruiter"}}}`)(w, r)
	})
	var meCookie atomic.Value
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("token"); err == nil {
			meCookie.Store(ck.Value)
		}
		jsonHandler(http.StatusOK, `{"data":{"id":"u1","email":"a@x.com","role":"recruiter"}}`)(w, r)
	})

	c, _ := newTestClient(t, mux)

	res := c.Login(context.Background(), "a@x.com", "Password1")
	require.True(t, res.Success)
	require.NotNil(t, res.Account)
	assert.Equal(t, "recruiter", res.Account.Role)
	assert.Equal(t, "logged in", res.Message)
	assert.False(t, c.Loading())

	// The jar must replay the session cookie on the next call.
	_ = c.Rehydrate(context.Background())
	assert.Equal(t, "session-jwt", meCookie.Load())
}

func TestLogin_FailureDoesNotPanic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", jsonHandler(http.StatusBadRequest,
		`{"error":{"code":"INVALID_CREDENTIALS","message":"invalid email or password"}}`))

	c, _ := newTestClient(t, mux)
	res := c.Login(context.Background(), "a@x.com", "wrong")

	assert.False(t, res.Success)
	assert.Nil(t, res.Account)
	var apiErr *APIError
	require.ErrorAs(t, res.Err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
}

func TestRegister_ReusesKeyForRepeatedSubmission(t *testing.T) {
	keys := make(chan string, 3)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		keys <- r.Header.Get("X-Idempotency-Key")
		jsonHandler(http.StatusCreated,
			`{"data":{"message":"registered","user":{"id":"u1","email":"a@x.com","role":"jobseeker"}}}`)(w, r)
	})

	c, _ := newTestClient(t, mux)
	in := RegisterInput{
		FirstName: "Ada", LastName: "L", Email: "a@x.com",
		Password: "Password1", RoleID: "r1",
	}

	res := c.Register(context.Background(), in)
	require.True(t, res.Success)
	assert.Equal(t, "registered", res.Message)
	// Registration does not sign the caller in.
	assert.Nil(t, c.Account())

	// A double-fired submit of the same form carries the SAME key, so the
	// server's dedup window sees one logical request.
	res = c.Register(context.Background(), in)
	require.True(t, res.Success)

	// A different form is a new submission and gets its own key.
	other := in
	other.Email = "b@x.com"
	res = c.Register(context.Background(), other)
	require.True(t, res.Success)

	first, second, third := <-keys, <-keys, <-keys
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second, "repeated submission reuses the key")
	assert.NotEqual(t, first, third, "changed form gets a fresh key")
}

func TestRegister_DoubleSubmitIsDeduplicatedEndToEnd(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		jsonHandler(http.StatusCreated,
			`{"data":{"message":"registered","user":{"id":"u1","email":"a@x.com","role":"jobseeker"}}}`)(w, r)
	})

	store := middleware.NewMemoryIdempotencyStore(time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(middleware.Idempotency(store, logger)(mux))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)

	in := RegisterInput{
		FirstName: "Ada", LastName: "L", Email: "a@x.com",
		Password: "Password1", RoleID: "r1",
	}

	first := c.Register(context.Background(), in)
	second := c.Register(context.Background(), in)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, int32(1), calls.Load(), "the handler runs once; the repeat is replayed")
	assert.Equal(t, first.Message, second.Message)
}

func TestSubmissionKeys_FreshKeyAfterWindow(t *testing.T) {
	s := newSubmissionKeys(time.Second)
	base := time.Now()
	in := RegisterInput{Email: "a@x.com"}

	first := s.KeyFor(in, base)
	assert.Equal(t, first, s.KeyFor(in, base.Add(500*time.Millisecond)))
	assert.NotEqual(t, first, s.KeyFor(in, base.Add(2*time.Second)),
		"a submission after the window is a new logical request")
}

func TestRegister_DecodesServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", jsonHandler(http.StatusBadRequest,
		`{"error":{"code":"DUPLICATE_EMAIL","message":"email already registered"}}`))

	c, _ := newTestClient(t, mux)
	res := c.Register(context.Background(), RegisterInput{Email: "a@x.com"})

	assert.False(t, res.Success)
	var apiErr *APIError
	require.ErrorAs(t, res.Err, &apiErr)
	assert.Equal(t, "DUPLICATE_EMAIL", apiErr.Code)
}

func TestVerifyEmail_SignsIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/verify-email", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "123456", body["email_otp"])
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "jwt", Path: "/"})
		jsonHandler(http.StatusOK,
			`{"data":{"message":"email verified","user":{"id":"u1","email":"a@x.com","role":"jobseeker","email_verified":true}}}`)(w, r)
	})

	c, _ := newTestClient(t, mux)
	res := c.VerifyEmail(context.Background(), "a@x.com", "123456")

	require.True(t, res.Success)
	require.NotNil(t, c.Account())
	assert.True(t, c.Account().EmailVerified)
}

func TestLogout_ClearsAccountEvenOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", jsonHandler(http.StatusOK,
		`{"data":{"user":{"id":"u1","email":"a@x.com","role":"jobseeker"}}}`))
	mux.HandleFunc("POST /api/v1/auth/logout", jsonHandler(http.StatusInternalServerError,
		`{"error":{"code":"INTERNAL_ERROR","message":"boom"}}`))

	c, _ := newTestClient(t, mux)
	require.True(t, c.Login(context.Background(), "a@x.com", "Password1").Success)
	require.NotNil(t, c.Account())

	res := c.Logout(context.Background())
	assert.False(t, res.Success)
	assert.Nil(t, c.Account(), "local session state is discarded regardless")
}

func TestForgotAndResetPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/forgot-password", jsonHandler(http.StatusOK,
		`{"data":{"message":"a password reset code has been sent"}}`))
	mux.HandleFunc("POST /api/v1/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "NewPassword1", body["newPassword"])
		jsonHandler(http.StatusOK, `{"data":{"message":"password has been reset successfully"}}`)(w, r)
	})

	c, _ := newTestClient(t, mux)

	res := c.ForgotPassword(context.Background(), "a@x.com")
	require.True(t, res.Success)
	assert.Equal(t, "a password reset code has been sent", res.Message)

	res = c.ResetPassword(context.Background(), "a@x.com", "123456", "NewPassword1")
	require.True(t, res.Success)
	assert.Nil(t, res.Account)
}

func TestGoogleLogin_AccountNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/google-login", jsonHandler(http.StatusBadRequest,
		`{"error":{"code":"ACCOUNT_NOT_FOUND","message":"no account for this identity"}}`))

	c, _ := newTestClient(t, mux)
	res := c.GoogleLogin(context.Background(), "google-id-token")

	assert.False(t, res.Success)
	assert.Nil(t, c.Account())
	var apiErr *APIError
	require.ErrorAs(t, res.Err, &apiErr)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", apiErr.Code)
}

func TestNotify_SuppressesRepeatWithinTTL(t *testing.T) {
	c, err := New("http://localhost", WithNoticeTTL(time.Hour))
	require.NoError(t, err)

	assert.True(t, c.Notify("saved"))
	assert.False(t, c.Notify("saved"), "identical repeat inside the window")
	assert.True(t, c.Notify("deleted"), "different content always shows")
	assert.False(t, c.Notify("deleted"))
}

func TestNoticeDeduper_AllowsRepeatAfterTTL(t *testing.T) {
	d := newNoticeDeduper(time.Second)
	base := time.Now()

	assert.True(t, d.Allow("saved", base))
	assert.False(t, d.Allow("saved", base.Add(500*time.Millisecond)))
	assert.True(t, d.Allow("saved", base.Add(2*time.Second)))
}
