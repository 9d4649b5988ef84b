package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadResult contains the result of an upload operation
type UploadResult struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PresignedURLResult contains a presigned URL for direct download
type PresignedURLResult struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Storage is the object store used to archive uploaded CSV files
type Storage interface {
	// Upload uploads a file to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)

	// GetPresignedDownloadURL generates a presigned URL for direct download
	GetPresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (*PresignedURLResult, error)
}

// GenerateImportArchiveKey builds the storage key of an archived upload.
// Format: imports/{yyyy}/{mm}/{yyyymmddThhmmss}_{unique_id}_{basename}.csv
func GenerateImportArchiveKey(filename string, at time.Time) string {
	at = at.UTC()
	base := strings.Trim(sanitizeFilename(strings.TrimSuffix(path.Base(filename), path.Ext(filename))), "-_")
	if base == "" {
		base = "upload"
	}
	uniqueID := uuid.New().String()[:8]

	return fmt.Sprintf("imports/%04d/%02d/%s_%s_%s.csv",
		at.Year(),
		int(at.Month()),
		at.Format("20060102T150405"),
		uniqueID,
		base,
	)
}

// IsArchiveKey reports whether key looks like a key produced by GenerateImportArchiveKey
func IsArchiveKey(key string) bool {
	return strings.HasPrefix(key, "imports/") && strings.HasSuffix(key, ".csv") && !strings.Contains(key, "..")
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	return b.String()
}
