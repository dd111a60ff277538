package upload

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 is an in-memory stand-in for the S3 client.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

type fakeObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modified    time.Time
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string]fakeObject)}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*params.Key] = fakeObject{
		data:        data,
		contentType: aws.ToString(params.ContentType),
		metadata:    params.Metadata,
		modified:    time.Now(),
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[*params.Key]
	if !ok {
		return nil, ErrNotFound
	}
	size := int64(len(obj.data))
	return &s3.HeadObjectOutput{
		ContentType:   aws.String(obj.contentType),
		ContentLength: aws.Int64(size),
		Metadata:      obj.metadata,
	}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[*params.Key]
	if !ok {
		return nil, ErrNotFound
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(string(obj.data))),
	}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for key, obj := range f.objects {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			out.Contents = append(out.Contents, types.Object{
				Key:          aws.String(key),
				LastModified: aws.Time(obj.modified),
			})
		}
	}
	return out, nil
}

func testS3Store(client s3API) *S3Store {
	return &S3Store{
		client: client,
		presign: func(ctx context.Context, key string, expiry time.Duration) (string, error) {
			return "https://cdn.example.com/" + key, nil
		},
		bucket:    "test-bucket",
		prefix:    "uploads/temp/",
		urlExpiry: time.Hour,
	}
}

func TestS3StoreSaveAndClaim(t *testing.T) {
	client := newFakeS3()
	store := testS3Store(client)
	ctx := context.Background()

	tempID, err := store.Save(ctx, "photo.png", "image/png", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	file, err := store.Claim(ctx, tempID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	defer file.Close()

	if file.Filename != "photo.png" {
		t.Errorf("Expected original filename, got %q", file.Filename)
	}
	if file.ContentType != "image/png" {
		t.Errorf("Expected content type image/png, got %q", file.ContentType)
	}
	if !strings.HasPrefix(file.URL, "https://cdn.example.com/uploads/temp/") {
		t.Errorf("Expected presigned URL, got %q", file.URL)
	}

	data, _ := io.ReadAll(file.Reader)
	if string(data) != "data" {
		t.Errorf("Expected stored contents, got %q", data)
	}
}

func TestS3StoreSizeLimit(t *testing.T) {
	store := testS3Store(newFakeS3())
	store.maxSize = 4

	_, err := store.Save(context.Background(), "big.bin", "application/octet-stream", 2, strings.NewReader("toolong"))
	if err != ErrTooLarge {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestS3StoreClaimUnknown(t *testing.T) {
	store := testS3Store(newFakeS3())

	if _, err := store.Claim(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestS3StoreCleanup(t *testing.T) {
	client := newFakeS3()
	store := testS3Store(client)
	ctx := context.Background()

	tempID, _ := store.Save(ctx, "stale.txt", "text/plain", 5, strings.NewReader("stale"))

	client.mu.Lock()
	obj := client.objects["uploads/temp/"+tempID]
	obj.modified = time.Now().Add(-2 * time.Hour)
	client.objects["uploads/temp/"+tempID] = obj
	client.mu.Unlock()

	if err := store.Cleanup(ctx, time.Hour); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := store.Claim(ctx, tempID); err != ErrNotFound {
		t.Errorf("Expected stale object removed, got %v", err)
	}
}
