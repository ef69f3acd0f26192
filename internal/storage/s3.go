package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// Options conveys the bucket layout for the S3 service.
type Options struct {
	Bucket    string
	KeyPrefix string
	Region    string
	Endpoint  string
}

// S3Service stores listing images and backup archives in Amazon S3 (or
// compatible APIs).
type S3Service struct {
	client  *s3.Client
	presign *s3.PresignClient
	opts    Options
}

func NewS3Service(client *s3.Client, opts Options) *S3Service {
	return &S3Service{
		client:  client,
		presign: s3.NewPresignClient(client),
		opts:    opts,
	}
}

// PresignImageUpload returns a short-lived URL the client PUTs an image to.
// The object key is randomized so callers cannot overwrite each other.
func (s *S3Service) PresignImageUpload(ctx context.Context, filename, contentType string) (PresignedUpload, error) {
	if s.opts.Bucket == "" {
		return PresignedUpload{}, fmt.Errorf("storage bucket is required")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return PresignedUpload{}, fmt.Errorf("content type %q is not an image", contentType)
	}

	ext := path.Ext(filename)
	key := path.Join(strings.Trim(s.opts.KeyPrefix, "/"), uuid.New().String()+ext)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign put object: %w", err)
	}

	return PresignedUpload{
		UploadURL: req.URL,
		PublicURL: s.objectURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignTTL),
	}, nil
}

// UploadFile pushes a local file (a backup archive) to the bucket and returns
// its object URL.
func (s *S3Service) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	if s.opts.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open file %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", localPath, err)
	}

	return s.objectURL(key), nil
}

// DeleteObject removes a single object from the bucket.
func (s *S3Service) DeleteObject(ctx context.Context, key string) error {
	if s.opts.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Service) objectURL(key string) string {
	if s.opts.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.opts.Endpoint, "/"), s.opts.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}

var _ Service = (*S3Service)(nil)
