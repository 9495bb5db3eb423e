// Package imagestore uploads recipe images to S3 and hands back the public URL
// that goes into the recipe's imageUrl field.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	keyPrefix = "recipe-images/"
	MaxSize   = 5 << 20
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrEmpty           = errors.New("empty image")
)

// extensions maps accepted content types to the key suffix. Every suffix is
// one the imageUrl rule accepts.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Uploader writes images to one bucket.
type Uploader struct {
	api     putObjectAPI
	presign presignAPI
	bucket  string
	baseURL string
	log     *slog.Logger
}

// New returns an uploader for bucket. baseURL is the public prefix of the
// uploaded objects, e.g. https://bucket.s3.region.amazonaws.com.
func New(client *s3.Client, bucket, baseURL string, log *slog.Logger) *Uploader {
	return newUploader(client, s3.NewPresignClient(client), bucket, baseURL, log)
}

func newUploader(api putObjectAPI, presign presignAPI, bucket, baseURL string, log *slog.Logger) *Uploader {
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{
		api:     api,
		presign: presign,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Upload stores data under a fresh key and returns its public URL. The
// content type is sniffed from the data, not trusted from the caller.
func (u *Uploader) Upload(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	contentType := mimetype.Detect(data).String()
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	key := keyPrefix + uuid.New().String() + ext
	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := u.baseURL + "/" + key
	u.log.Info("uploaded recipe image", "key", key, "bytes", len(data))
	return publicURL, nil
}

// UploadFile reads path and uploads its contents.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return u.Upload(ctx, data)
}

// PresignedURL returns a time-limited download URL for an uploaded image URL
// or key, for buckets without public read access.
func (u *Uploader) PresignedURL(ctx context.Context, imageURL string, expiration time.Duration) (string, error) {
	key := strings.TrimPrefix(imageURL, u.baseURL+"/")
	req, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}
