package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithURLExpiry sets how long presigned access URLs stay valid.
func WithURLExpiry(d time.Duration) S3Option {
	return func(s *S3Store) {
		s.urlExpiry = d
	}
}

// WithS3MaxFileSize bounds individual files; 0 means no limit.
func WithS3MaxFileSize(n int64) S3Option {
	return func(s *S3Store) {
		s.maxSize = n
	}
}

// S3Store keeps temp files in an S3 bucket under a key prefix. Claimed
// files carry a presigned URL; the temp object is deleted after claiming.
type S3Store struct {
	client    s3API
	presign   func(ctx context.Context, key string, expiry time.Duration) (string, error)
	bucket    string
	prefix    string
	maxSize   int64
	urlExpiry time.Duration
}

// NewS3Store creates an S3 temp store.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := upload.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "uploads/temp/")
func NewS3Store(client *s3.Client, bucket, prefix string, opts ...S3Option) *S3Store {
	presigner := s3.NewPresignClient(client)
	s := &S3Store{
		client: client,
		presign: func(ctx context.Context, key string, expiry time.Duration) (string, error) {
			out, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(expiry))
			if err != nil {
				return "", err
			}
			return out.URL, nil
		},
		bucket:    bucket,
		prefix:    prefix,
		urlExpiry: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save buffers the upload and puts it under the store's prefix.
func (s *S3Store) Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrTooLarge
	}

	tempID := newTempID()
	key := s.prefix + tempID

	var buf bytes.Buffer
	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	written, err := io.Copy(&buf, src)
	if err != nil {
		return "", err
	}
	if s.maxSize > 0 && written > s.maxSize {
		return "", ErrTooLarge
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": filename,
			"upload-time":       time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed: %w", err)
	}
	return tempID, nil
}

// Claim fetches the temp object, presigns an access URL, and deletes the
// temp key.
func (s *S3Store) Claim(ctx context.Context, tempID string) (*File, error) {
	key := s.prefix + tempID

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ErrNotFound
	}

	filename := tempID
	if fn, ok := head.Metadata["original-filename"]; ok {
		filename = fn
	}
	contentType := "application/octet-stream"
	if head.ContentType != nil {
		contentType = *head.ContentType
	}
	var size int64
	if head.ContentLength != nil {
		size = *head.ContentLength
	}

	url, err := s.presign(ctx, key, s.urlExpiry)
	if err != nil {
		url = ""
	}

	// Claimed = consumed.
	go func() {
		s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	}()

	return &File{
		ID:          tempID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		URL:         url,
		Reader:      obj.Body,
	}, nil
}

// Cleanup deletes temp objects older than maxAge.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	var toDelete []string
	var token *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return err
		}
		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoff) && obj.Key != nil {
				toDelete = append(toDelete, *obj.Key)
			}
		}
		if page.IsTruncated == nil || !*page.IsTruncated {
			break
		}
		token = page.NextContinuationToken
	}

	for _, key := range toDelete {
		s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	}
	return nil
}
