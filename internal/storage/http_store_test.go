package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HappyDog/internal/clock"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(endpoint string) *HTTPStore {
	return NewHTTPStore(endpoint, "happydog", "https://cdn.happydog.example", "AKIA_TEST", "sekrit", clock.Fixed(testNow), nil)
}

func TestObjectKey_Namespaces(t *testing.T) {
	cases := []struct {
		uploadType string
		wantPrefix string
	}{
		{UploadProfileImage, "user_profiles/"},
		{UploadNosePrint, "nose_prints_staging/"},
		{UploadPostImage, "posts/"},
		{UploadCartoonSource, "cartoon_sources/"},
		{UploadEyeAnalysis, "eye_analysis_images/"},
	}
	for _, tc := range cases {
		key, err := ObjectKey(tc.uploadType, "user-1", "abc", "jpg")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, tc.wantPrefix), key)
		assert.True(t, strings.HasSuffix(key, "user-1/abc.jpg"), key)
	}
}

func TestObjectKey_UnknownNamespace(t *testing.T) {
	_, err := ObjectKey("selfie", "user-1", "abc", "jpg")
	assert.ErrorIs(t, err, ErrInvalidUploadType)
}

func TestGenerateUploadURL(t *testing.T) {
	s := newTestStore("https://store.example")

	up, err := s.GenerateUploadURL(context.Background(), UploadNosePrint, "user-1", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.FileID, "nose_prints_staging/user-1/"))
	assert.True(t, strings.HasSuffix(up.FileID, ".png"))
	assert.Equal(t, testNow.Add(SignedUploadTTL), up.ExpiresAt)

	u, err := url.Parse(up.UploadURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "AKIA_TEST", q.Get("X-Access-Key"))
	assert.Equal(t, "image/png", q.Get("X-Content-Type"))
	assert.NotEmpty(t, q.Get("X-Signature"))
}

func TestGenerateUploadURL_RejectsNonImage(t *testing.T) {
	s := newTestStore("https://store.example")
	_, err := s.GenerateUploadURL(context.Background(), UploadPostImage, "user-1", "application/zip")
	assert.ErrorIs(t, err, ErrInvalidUploadType)
}

func TestSignURL_BindsMethodAndKey(t *testing.T) {
	s := newTestStore("https://store.example")
	exp := testNow.Add(time.Minute)

	put := s.signURL(http.MethodPut, "posts/u/a.jpg", "image/jpeg", exp)
	get := s.signURL(http.MethodGet, "posts/u/a.jpg", "image/jpeg", exp)
	other := s.signURL(http.MethodPut, "posts/u/b.jpg", "image/jpeg", exp)

	sig := func(raw string) string {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		return u.Query().Get("X-Signature")
	}
	assert.NotEqual(t, sig(put), sig(get))
	assert.NotEqual(t, sig(put), sig(other))
}

func TestMakePublic_ReturnsStableURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := newTestStore(srv.URL)
	first, err := s.MakePublic(context.Background(), "posts/user-1/a.jpg")
	require.NoError(t, err)
	second, err := s.MakePublic(context.Background(), "posts/user-1/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.happydog.example/posts/user-1/a.jpg", first)
	assert.Equal(t, first, second)
}

func TestKeyFromURL_InvertsPublicURL(t *testing.T) {
	s := newTestStore("https://store.example")

	key, ok := s.KeyFromURL("https://cdn.happydog.example/posts/user-1/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "posts/user-1/a.jpg", key)

	// Images hosted outside this store are not ours to delete.
	_, ok = s.KeyFromURL("https://generator.example/results/cartoon.png")
	assert.False(t, ok)

	_, ok = s.KeyFromURL("https://cdn.happydog.example/")
	assert.False(t, ok)
}

func TestDownload_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := newTestStore(srv.URL)
	_, err := s.Download(context.Background(), "posts/user-1/missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := newTestStore(srv.URL)
	assert.NoError(t, s.Delete(context.Background(), "posts/user-1/a.jpg"))
}
