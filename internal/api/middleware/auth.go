// Package middleware holds the HTTP middlewares: bearer-token auth with
// revocation checks, and request metrics.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Context keys for storing user information.
type contextKey string

const userIDKey contextKey = "user_id"

// TokenChecker reports whether a token id was revoked.
type TokenChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware validates HS256 bearer tokens and injects the caller's
// user id into the request context.
type AuthMiddleware struct {
	secret []byte
	tokens TokenChecker
	logger *slog.Logger
}

// NewAuthMiddleware creates the middleware with the signing secret.
func NewAuthMiddleware(secret string, tokens TokenChecker, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		secret: []byte(secret),
		tokens: tokens,
		logger: logger,
	}
}

// RequireAuth ensures the request carries a valid, unrevoked token. On
// success the subject claim is available via GetUserID.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth injects the user id when a valid token is present but
// lets anonymous requests through. Anonymous feed readers get uniform
// is_liked=false downstream.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		writeAuthError(w, "missing Authorization header")
		return "", false
	}
	if !strings.HasPrefix(header, "Bearer ") {
		writeAuthError(w, "expected Bearer token")
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
	)
	if err != nil {
		m.logger.Warn("token rejected",
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"error", err)
		writeAuthError(w, "invalid or expired token")
		return "", false
	}

	userID := token.Subject()
	if userID == "" {
		writeAuthError(w, "token has no subject")
		return "", false
	}

	if jti := token.JwtID(); jti != "" && m.tokens != nil {
		revoked, err := m.tokens.IsRevoked(r.Context(), jti)
		if err != nil {
			m.logger.Error("revocation check failed", "jti", jti, "error", err)
			writeAuthError(w, "could not verify token")
			return "", false
		}
		if revoked {
			writeAuthError(w, "token has been revoked")
			return "", false
		}
	}
	return userID, true
}

// GetUserID returns the authenticated caller's user id, or "" for
// anonymous requests.
func GetUserID(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error_code": "UNAUTHORIZED",
		"message":    message,
	})
}
