package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenRevoker records token ids until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// AuthHandler covers logout. Token issuance lives in the auth front-end;
// this service only invalidates.
type AuthHandler struct {
	secret []byte
	tokens TokenRevoker
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(secret string, tokens TokenRevoker) *AuthHandler {
	return &AuthHandler{secret: []byte(secret), tokens: tokens}
}

type logoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// HandleLogout revokes the jti of the supplied tokens. Expired tokens
// are still accepted so a stale session can always be torn down; only
// the signature must check out.
// POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}
	if req.AccessToken == "" {
		WriteError(w, http.StatusBadRequest, CodeValidation, "access_token is required")
		return
	}

	for _, raw := range []string{req.AccessToken, req.RefreshToken} {
		if raw == "" {
			continue
		}
		if err := h.revoke(r.Context(), raw); err != nil {
			if errors.Is(err, errInvalidToken) {
				WriteError(w, http.StatusUnprocessableEntity, "INVALID_TOKEN", "token is malformed or not ours")
				return
			}
			MapError(w, err)
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

var errInvalidToken = errors.New("invalid token")

func (h *AuthHandler) revoke(ctx context.Context, raw string) error {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, h.secret),
		jwt.WithValidate(false),
	)
	if err != nil {
		return errInvalidToken
	}
	jti := token.JwtID()
	if jti == "" {
		return errInvalidToken
	}
	return h.tokens.Revoke(ctx, jti, token.Expiration())
}
