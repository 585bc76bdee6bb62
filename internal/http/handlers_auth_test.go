package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
)

// fakeAuthUIService implements AuthUIService with overridable behavior per test.
type fakeAuthUIService struct {
	signUpFunc     func(ctx context.Context, req model.SignUpRequest) (*domainauth.Session, error)
	loginFunc      func(ctx context.Context, email, password string) (*domainauth.Session, error)
	getSessionFunc func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc     func(ctx context.Context, sessionID string) error
}

func (f *fakeAuthUIService) SignUp(ctx context.Context, req model.SignUpRequest) (*domainauth.Session, error) {
	if f.signUpFunc == nil {
		return nil, errors.New("unexpected SignUp call")
	}
	return f.signUpFunc(ctx, req)
}

func (f *fakeAuthUIService) Login(ctx context.Context, email, password string) (*domainauth.Session, error) {
	if f.loginFunc == nil {
		return nil, errors.New("unexpected Login call")
	}
	return f.loginFunc(ctx, email, password)
}

func (f *fakeAuthUIService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if f.getSessionFunc == nil {
		return nil, errors.New("unexpected GetSession call")
	}
	return f.getSessionFunc(ctx, sessionID)
}

func (f *fakeAuthUIService) Logout(ctx context.Context, sessionID string) error {
	if f.logoutFunc == nil {
		return errors.New("unexpected Logout call")
	}
	return f.logoutFunc(ctx, sessionID)
}

func testSession() *domainauth.Session {
	return &domainauth.Session{
		ID:          "sess-1",
		UserID:      "user-1",
		Email:       "cook@example.com",
		DisplayName: "Cook",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
}

func loginFormRequest(form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", formURLEncoded)
	return r
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	resp := w.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	svc := &fakeAuthUIService{
		loginFunc: func(_ context.Context, email, password string) (*domainauth.Session, error) {
			assert.Equal(t, "cook@example.com", email)
			assert.Equal(t, "secret", password)
			return testSession(), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{}
	form.Set("email", " cook@example.com ")
	form.Set("password", "secret")
	form.Set("redirect_uri", "/recipes/r1")
	w := httptest.NewRecorder()

	h.Login(w, loginFormRequest(form))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/recipes/r1", w.Header().Get("Location"))

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Equal(t, "sess-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)
}

func TestLogin_Success_HTMX(t *testing.T) {
	svc := &fakeAuthUIService{
		loginFunc: func(_ context.Context, _, _ string) (*domainauth.Session, error) {
			return testSession(), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{}
	form.Set("email", "cook@example.com")
	form.Set("password", "secret")
	r := loginFormRequest(form)
	r.Header.Set("Hx-Request", "true")
	w := httptest.NewRecorder()

	h.Login(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/", w.Header().Get("Hx-Redirect"))
}

func TestLogin_UnsafeRedirectFallsBackToRoot(t *testing.T) {
	svc := &fakeAuthUIService{
		loginFunc: func(_ context.Context, _, _ string) (*domainauth.Session, error) {
			return testSession(), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{}
	form.Set("email", "cook@example.com")
	form.Set("password", "secret")
	form.Set("redirect_uri", "https://evil.example.com/phish")
	w := httptest.NewRecorder()

	h.Login(w, loginFormRequest(form))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogin_BadCredentialsRerenders(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	require.NotNil(t, tr)

	svc := &fakeAuthUIService{
		loginFunc: func(_ context.Context, _, _ string) (*domainauth.Session, error) {
			return nil, apperrors.Auth("Invalid email or password.")
		},
	}
	h := &AuthHandlers{Svc: svc, T: tr}

	form := url.Values{}
	form.Set("email", "cook@example.com")
	form.Set("password", "wrong")
	w := httptest.NewRecorder()

	h.Login(w, loginFormRequest(form))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Invalid email or password.")
	// The submitted email is preserved on the re-rendered form
	assert.Contains(t, body, `value="cook@example.com"`)
	assert.Nil(t, sessionCookieFrom(t, w))
}

func TestSignup_Success(t *testing.T) {
	svc := &fakeAuthUIService{
		signUpFunc: func(_ context.Context, req model.SignUpRequest) (*domainauth.Session, error) {
			assert.Equal(t, "new@example.com", req.Email)
			assert.Equal(t, "New Cook", req.DisplayName)
			return testSession(), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	form := url.Values{}
	form.Set("email", "new@example.com")
	form.Set("password", "secret123")
	form.Set("display_name", " New Cook ")
	r := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", formURLEncoded)
	w := httptest.NewRecorder()

	h.Signup(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.NotNil(t, sessionCookieFrom(t, w))
}

func TestSignup_DuplicateEmailRerenders(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	require.NotNil(t, tr)

	svc := &fakeAuthUIService{
		signUpFunc: func(_ context.Context, _ model.SignUpRequest) (*domainauth.Session, error) {
			return nil, apperrors.Auth("An account with this email already exists.")
		},
	}
	h := &AuthHandlers{Svc: svc, T: tr}

	form := url.Values{}
	form.Set("email", "taken@example.com")
	form.Set("password", "secret123")
	form.Set("display_name", "Cook")
	r := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", formURLEncoded)
	w := httptest.NewRecorder()

	h.Signup(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "An account with this email already exists.")
}

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	var loggedOut string
	svc := &fakeAuthUIService{
		logoutFunc: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Logout(w, r)

	assert.Equal(t, "sess-1", loggedOut)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestLogout_HTMX(t *testing.T) {
	svc := &fakeAuthUIService{
		logoutFunc: func(_ context.Context, _ string) error { return nil },
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.Header.Set("Hx-Request", "true")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Logout(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Hx-Redirect"))
}

func TestLogout_WithoutCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthUIService{}} // Logout must not be called

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestStatus_NoCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthUIService{}}

	r := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	w := httptest.NewRecorder()

	h.Status(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestStatus_ValidSession(t *testing.T) {
	svc := &fakeAuthUIService{
		getSessionFunc: func(_ context.Context, sessionID string) (*domainauth.Session, error) {
			assert.Equal(t, "sess-1", sessionID)
			return testSession(), nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Status(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"authenticated":true`)
	assert.Contains(t, body, `"email":"cook@example.com"`)
	assert.Contains(t, body, `"display_name":"Cook"`)
}

func TestStatus_ExpiredSessionClearsCookie(t *testing.T) {
	svc := &fakeAuthUIService{
		getSessionFunc: func(_ context.Context, _ string) (*domainauth.Session, error) {
			return nil, apperrors.Auth("Session expired.")
		},
	}
	h := &AuthHandlers{Svc: svc}

	r := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	w := httptest.NewRecorder()

	h.Status(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	cookie := sessionCookieFrom(t, w)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "auth error keeps its wording",
			err:  apperrors.Auth("Invalid email or password."),
			want: "Invalid email or password.",
		},
		{
			name: "validation error keeps its wording",
			err:  apperrors.Validation("Password must be at least 8 characters."),
			want: "Password must be at least 8 characters.",
		},
		{
			name: "everything else collapses",
			err:  errors.New("redis: connection refused"),
			want: "Something went wrong. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authErrorMessage(tt.err))
		})
	}
}

func TestLoginPage_Renders(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	require.NotNil(t, tr)
	h := &AuthHandlers{Svc: &fakeAuthUIService{}, T: tr}

	r := httptest.NewRequest(http.MethodGet, "/login?redirect_uri=%2Frecipes%2Fr1", nil)
	w := httptest.NewRecorder()

	h.LoginPage(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Log in")
	assert.Contains(t, body, `name="redirect_uri" value="/recipes/r1"`)
}
