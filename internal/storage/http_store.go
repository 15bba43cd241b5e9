package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"HappyDog/internal/clock"
)

// contentTypeExtensions whitelists the image types clients may upload.
var contentTypeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
}

// HTTPStore signs requests against an S3-compatible object store with
// HMAC-SHA256 query signatures.
type HTTPStore struct {
	endpoint      string
	bucket        string
	publicBaseURL string
	accessKeyID   string
	secret        []byte
	httpClient    *http.Client
	clock         clock.Clock
	logger        *slog.Logger
}

// NewHTTPStore creates a store client.
func NewHTTPStore(endpoint, bucket, publicBaseURL, accessKeyID, secret string, clk clock.Clock, logger *slog.Logger) *HTTPStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPStore{
		endpoint:      strings.TrimRight(endpoint, "/"),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		accessKeyID:   accessKeyID,
		secret:        []byte(secret),
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		clock:         clk,
		logger:        logger,
	}
}

func (s *HTTPStore) GenerateUploadURL(ctx context.Context, uploadType, userID, contentType string) (*SignedUpload, error) {
	ext, ok := contentTypeExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidUploadType, contentType)
	}

	key, err := ObjectKey(uploadType, userID, clock.NewUUID(), ext)
	if err != nil {
		return nil, err
	}

	expires := s.clock.Now().Add(SignedUploadTTL)
	signed := s.signURL(http.MethodPut, key, contentType, expires)

	s.logger.Info("upload URL minted", "type", uploadType, "user", userID, "key", key)
	return &SignedUpload{
		FileID:    key,
		UploadURL: signed,
		ExpiresAt: expires,
	}, nil
}

func (s *HTTPStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	expires := s.clock.Now().Add(time.Minute)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.signURL(http.MethodGet, fileID, "", expires), nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading object: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("object store returned %d", resp.StatusCode)
	}
}

// MakePublic flips the object ACL and returns the stable public URL.
// The ACL change is idempotent upstream, so repeated promotion of the
// same file id converges on the same URL.
func (s *HTTPStore) MakePublic(ctx context.Context, fileID string) (string, error) {
	expires := s.clock.Now().Add(time.Minute)
	u := s.signURL(http.MethodPost, fileID, "", expires) + "&acl=public-read"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", fmt.Errorf("building acl request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("promoting object: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return s.PublicURL(fileID), nil
	case http.StatusNotFound:
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("object store returned %d", resp.StatusCode)
	}
}

func (s *HTTPStore) Delete(ctx context.Context, fileID string) error {
	expires := s.clock.Now().Add(time.Minute)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.signURL(http.MethodDelete, fileID, "", expires), nil)
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("object store returned %d", resp.StatusCode)
	}
}

// PublicURL returns the stable public URL for a key without touching
// the store.
func (s *HTTPStore) PublicURL(fileID string) string {
	return s.publicBaseURL + "/" + fileID
}

// KeyFromURL inverts PublicURL. URLs outside this store's public base,
// such as externally hosted generation results, report false.
func (s *HTTPStore) KeyFromURL(u string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// signURL binds method, key, content type, and expiry into one HMAC so
// a minted URL cannot be replayed for a different object or verb.
func (s *HTTPStore) signURL(method, key, contentType string, expires time.Time) string {
	exp := strconv.FormatInt(expires.Unix(), 10)
	payload := strings.Join([]string{method, s.bucket, key, contentType, exp}, "\n")

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	sig := hex.EncodeToString(mac.Sum(nil))

	q := url.Values{}
	q.Set("X-Access-Key", s.accessKeyID)
	q.Set("X-Expires", exp)
	if contentType != "" {
		q.Set("X-Content-Type", contentType)
	}
	q.Set("X-Signature", sig)
	return fmt.Sprintf("%s/%s/%s?%s", s.endpoint, s.bucket, key, q.Encode())
}
