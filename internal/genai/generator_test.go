package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Prompt
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(generateResponse{ImageURL: "https://cdn/result.png"})
	}))
	defer srv.Close()

	g := NewCartoonGenerator(srv.URL, "test-key", nil)
	url, err := g.Generate(context.Background(), "draw a corgi", "https://cdn/src.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/result.png", url)
	assert.Equal(t, "draw a corgi", gotPrompt)
}

func TestGenerate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewCartoonGenerator(srv.URL, "", nil)
	_, err := g.Generate(context.Background(), "p", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGenerate_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewCartoonGenerator(srv.URL, "", nil)
	for i := 0; i < 5; i++ {
		_, err := g.Generate(context.Background(), "p", "s")
		require.Error(t, err)
	}
	require.EqualValues(t, 5, atomic.LoadInt32(&hits))

	// The breaker is now open: the next call fails without reaching the
	// upstream.
	_, err := g.Generate(context.Background(), "p", "s")
	require.Error(t, err)
	assert.EqualValues(t, 5, atomic.LoadInt32(&hits))
}

func TestGenerate_MissingImageURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewCartoonGenerator(srv.URL, "", nil)
	_, err := g.Generate(context.Background(), "p", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image_url")
}
