package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
	"github.com/isaacgyampoh/recipe-saver/internal/domain/model"
	apperrors "github.com/isaacgyampoh/recipe-saver/internal/errors"
	"github.com/isaacgyampoh/recipe-saver/internal/service"
)

// AuthUIService is the surface of the auth service the handlers need.
type AuthUIService interface {
	SignUp(ctx context.Context, req model.SignUpRequest) (*domainauth.Session, error)
	Login(ctx context.Context, email, password string) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthUIService = (*service.AuthService)(nil)

// AuthHandlers serves the login, signup, and session endpoints.
type AuthHandlers struct {
	Svc          AuthUIService
	T            *TemplateRenderer
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the login form.
// GET /login.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderAuthPage(w, r, authPageData{
		Meta:        loginPageMeta(),
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	})
}

// Login authenticates with email and password and opens a session.
// POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	session, err := h.Svc.Login(r.Context(), email, password)
	if err != nil {
		h.renderAuthPage(w, r, authPageData{
			Meta:        loginPageMeta(),
			RedirectURI: redirectURI,
			Email:       email,
			Error:       authErrorMessage(err),
		})
		return
	}

	h.setSessionCookie(w, r, session)
	h.redirectAfterAuth(w, r, redirectURI)
}

// SignupPage renders the account creation form.
// GET /signup.
func (h *AuthHandlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.renderAuthPage(w, r, authPageData{
		Meta:        signupPageMeta(),
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	})
}

// Signup registers a new account and logs it in.
// POST /signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	req := model.SignUpRequest{
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Password:    r.PostFormValue("password"),
		DisplayName: strings.TrimSpace(r.PostFormValue("display_name")),
	}
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	session, err := h.Svc.SignUp(r.Context(), req)
	if err != nil {
		h.renderAuthPage(w, r, authPageData{
			Meta:        signupPageMeta(),
			RedirectURI: redirectURI,
			Email:       req.Email,
			DisplayName: req.DisplayName,
			Error:       authErrorMessage(err),
		})
		return
	}

	h.setSessionCookie(w, r, session)
	h.redirectAfterAuth(w, r, redirectURI)
}

// Logout invalidates the server-side session and clears the cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, SessionCookieName)

	if IsHTMX(r) {
		HTMX(w).Redirect("/login")
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":           session.UserID,
			"email":        session.Email,
			"display_name": session.DisplayName,
		},
		"expires_at": session.ExpiresAt,
	})
}

// authPageData carries everything the login and signup pages render.
type authPageData struct {
	Meta        PageMeta
	RedirectURI string
	Email       string
	DisplayName string
	Error       string
}

// renderAuthPage renders a public auth page. These pages sit outside the
// application shell, so they always render as full pages.
func (h *AuthHandlers) renderAuthPage(w http.ResponseWriter, r *http.Request, p authPageData) {
	builder := NewTemplateData(r, p.Meta).
		With("RedirectURI", p.RedirectURI).
		With("Email", p.Email).
		With("DisplayName", p.DisplayName)
	if p.Error != "" {
		builder.WithError(p.Error)
	}

	if err := h.T.RenderFull(w, r, builder.Build()); err != nil {
		h.logger().Error("failed to render auth page", "page", p.Meta.CurrentPage, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// authErrorMessage maps auth service failures to a message safe to show.
// Credential and validation failures carry their own wording; everything
// else collapses to a generic retry message.
func authErrorMessage(err error) string {
	if apperrors.IsAuth(err) || apperrors.IsValidation(err) {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			return appErr.Message
		}
	}
	return "Something went wrong. Please try again."
}

// redirectAfterAuth sends the browser to its post-login destination.
func (h *AuthHandlers) redirectAfterAuth(w http.ResponseWriter, r *http.Request, redirectURI string) {
	if redirectURI == "" {
		redirectURI = "/"
	}
	if IsHTMX(r) {
		HTMX(w).Redirect(redirectURI)
		return
	}
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s *domainauth.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func loginPageMeta() PageMeta {
	return PageMeta{
		Title:       "Recipe Saver - Log In",
		PageTitle:   "Log In",
		CurrentPage: PageLogin,
	}
}

func signupPageMeta() PageMeta {
	return PageMeta{
		Title:       "Recipe Saver - Sign Up",
		PageTitle:   "Sign Up",
		CurrentPage: PageSignup,
	}
}
