// Package storage is the object-store boundary: minting signed upload
// URLs, downloading staged objects, promoting them to public URLs, and
// deleting them.
package storage

import (
	"context"
	"errors"
	"time"
)

// Upload types map to object-key namespaces. Unknown types are rejected
// before any URL is minted.
const (
	UploadProfileImage  = "profile_image"
	UploadNosePrint     = "nose_print"
	UploadPostImage     = "post_image"
	UploadCartoonSource = "cartoon_source"
	UploadEyeAnalysis   = "eye_analysis"
)

// namespaces maps upload types to their object-key prefix.
var namespaces = map[string]string{
	UploadProfileImage:  "user_profiles",
	UploadNosePrint:     "nose_prints_staging",
	UploadPostImage:     "posts",
	UploadCartoonSource: "cartoon_sources",
	UploadEyeAnalysis:   "eye_analysis_images",
}

// SignedUploadTTL is the lifetime of a minted upload URL.
const SignedUploadTTL = 15 * time.Minute

var (
	// ErrInvalidUploadType is returned for unknown upload namespaces.
	ErrInvalidUploadType = errors.New("invalid upload type")

	// ErrNotFound is returned when the object does not exist.
	ErrNotFound = errors.New("object not found")
)

// SignedUpload is a minted one-shot upload grant.
type SignedUpload struct {
	FileID    string    `json:"file_id"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the object-store surface the services consume.
type Store interface {
	// GenerateUploadURL mints a PUT URL bound to one object key and one
	// MIME type, valid for SignedUploadTTL.
	GenerateUploadURL(ctx context.Context, uploadType, userID, contentType string) (*SignedUpload, error)

	// Download fetches the object bytes by file id.
	Download(ctx context.Context, fileID string) ([]byte, error)

	// MakePublic promotes a staged object and returns its stable public
	// URL. Calling it twice yields the same URL.
	MakePublic(ctx context.Context, fileID string) (string, error)

	// Delete removes the object. Deleting a missing object returns
	// ErrNotFound.
	Delete(ctx context.Context, fileID string) error
}

// ObjectKey builds the namespaced key for an upload. The extension is
// derived from the MIME type by the caller.
func ObjectKey(uploadType, userID, fileUUID, ext string) (string, error) {
	ns, ok := namespaces[uploadType]
	if !ok {
		return "", ErrInvalidUploadType
	}
	return ns + "/" + userID + "/" + fileUUID + "." + ext, nil
}
