package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/richxcame/devcert-dashboard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImportArchiveKey(t *testing.T) {
	at := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

	key := GenerateImportArchiveKey("Partner Export.v2.csv", at)

	assert.True(t, strings.HasPrefix(key, "imports/2024/03/20240305T143000_"))
	assert.True(t, strings.HasSuffix(key, "_partner-export-v2.csv"))
	assert.True(t, IsArchiveKey(key))
}

func TestGenerateImportArchiveKey_EmptyName(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, name := range []string{"", ".", ".csv", "  .csv", "/", "--.csv"} {
		key := GenerateImportArchiveKey(name, at)
		assert.True(t, strings.HasSuffix(key, "_upload.csv"), "%q -> %s", name, key)
		assert.True(t, IsArchiveKey(key), key)
	}
}

func TestGenerateImportArchiveKey_TrimsSeparators(t *testing.T) {
	key := GenerateImportArchiveKey(" leaders export .csv", time.Now())

	assert.True(t, strings.HasSuffix(key, "_leaders-export.csv"), key)
}

func TestGenerateImportArchiveKey_Unique(t *testing.T) {
	at := time.Now()
	assert.NotEqual(t, GenerateImportArchiveKey("a.csv", at), GenerateImportArchiveKey("a.csv", at))
}

func TestIsArchiveKey(t *testing.T) {
	tests := []struct {
		key      string
		expected bool
	}{
		{"imports/2024/01/x.csv", true},
		{"imports/../secrets.csv", false},
		{"other/2024/01/x.csv", false},
		{"imports/2024/01/x.txt", false},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsArchiveKey(tc.key))
		})
	}
}

type recordingPutter struct {
	input *s3.PutObjectInput
	body  string
}

func (r *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.input = in
	b, _ := io.ReadAll(in.Body)
	r.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func minioConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:    "devcert-imports",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
	}
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.StorageConfig{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3Storage_UploadEncrypts(t *testing.T) {
	store, err := NewS3Storage(context.Background(), minioConfig())
	require.NoError(t, err)
	putter := &recordingPutter{}
	store.client = putter

	key := "imports/2024/03/20240305T143000_abcd1234_export.csv"
	result, err := store.Upload(context.Background(), key, strings.NewReader("Email\n"), 6, "text/csv")

	require.NoError(t, err)
	assert.Equal(t, "s3://devcert-imports/"+key, result.URL)
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "devcert-imports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, types.ServerSideEncryptionAes256, putter.input.ServerSideEncryption)
	assert.Equal(t, "Email\n", putter.body)
}

func TestS3Storage_PresignedDownloadURL(t *testing.T) {
	store, err := NewS3Storage(context.Background(), minioConfig())
	require.NoError(t, err)

	key := "imports/2024/03/20240305T143000_abcd1234_export.csv"
	result, err := store.GetPresignedDownloadURL(context.Background(), key, 15*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "GET", result.Method)
	assert.True(t, strings.HasPrefix(result.URL, "http://localhost:9000/devcert-imports/"+key), result.URL)
	assert.Contains(t, result.URL, "X-Amz-Expires=900")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), result.ExpiresAt, time.Minute)
}
