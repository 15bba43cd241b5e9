package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "logout-test-secret"

type fakeTokenRevoker struct {
	revoked map[string]time.Time
	err     error
}

func (f *fakeTokenRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[jti] = expiresAt
	return nil
}

func signToken(t *testing.T, jti string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewBuilder().
		Subject("user-1").
		JwtID(jti).
		Expiration(exp).
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(testSecret)))
	require.NoError(t, err)
	return string(signed)
}

func postLogout(t *testing.T, h *AuthHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", bytes.NewReader(raw))
	h.HandleLogout(rec, req)
	return rec
}

func TestHandleLogout_RevokesBothTokens(t *testing.T) {
	revoker := &fakeTokenRevoker{}
	h := NewAuthHandler(testSecret, revoker)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	rec := postLogout(t, h, map[string]string{
		"access_token":  signToken(t, "access-jti", exp),
		"refresh_token": signToken(t, "refresh-jti", exp.Add(24*time.Hour)),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, revoker.revoked, 2)
	assert.Contains(t, revoker.revoked, "access-jti")
	assert.Contains(t, revoker.revoked, "refresh-jti")
}

func TestHandleLogout_ExpiredTokenStillRevocable(t *testing.T) {
	revoker := &fakeTokenRevoker{}
	h := NewAuthHandler(testSecret, revoker)

	rec := postLogout(t, h, map[string]string{
		"access_token": signToken(t, "stale-jti", time.Now().Add(-time.Hour)),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, revoker.revoked, "stale-jti")
}

func TestHandleLogout_ForeignSignatureRejected(t *testing.T) {
	revoker := &fakeTokenRevoker{}
	h := NewAuthHandler("a different secret", revoker)

	rec := postLogout(t, h, map[string]string{
		"access_token": signToken(t, "access-jti", time.Now().Add(time.Hour)),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeEnvelope(t, rec).ErrorCode)
	assert.Empty(t, revoker.revoked)
}

func TestHandleLogout_MissingAccessToken(t *testing.T) {
	h := NewAuthHandler(testSecret, &fakeTokenRevoker{})

	rec := postLogout(t, h, map[string]string{"refresh_token": "whatever"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeValidation, decodeEnvelope(t, rec).ErrorCode)
}
