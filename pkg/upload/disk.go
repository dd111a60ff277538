package upload

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiskStore keeps temp files on the local filesystem. Metadata is held in
// memory and mirrored next to the file as <id>.meta, so claims survive a
// process restart.
type DiskStore struct {
	dir     string
	maxSize int64

	mu    sync.Mutex
	files map[string]*fileMeta
}

type fileMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a DiskStore rooted at dir, creating it if needed.
// maxSize bounds individual files; 0 means no limit.
func NewDiskStore(dir string, maxSize int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:     dir,
		maxSize: maxSize,
		files:   make(map[string]*fileMeta),
	}, nil
}

// Save streams the upload to a temp file and returns its ID.
func (s *DiskStore) Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tempID := newTempID()
	path := filepath.Join(s.dir, tempID)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src := r
	if s.maxSize > 0 {
		// +1 so an over-limit stream is detectable.
		src = io.LimitReader(r, s.maxSize+1)
	}
	written, err := io.Copy(f, src)
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(path)
		return "", ErrTooLarge
	}

	meta := &fileMeta{
		Filename:    filename,
		ContentType: contentType,
		Size:        written,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.files[tempID] = meta
	s.mu.Unlock()

	s.writeMeta(tempID, meta)
	return tempID, nil
}

// Claim takes ownership of a temp file. The returned reader deletes the
// file on close.
func (s *DiskStore) Claim(ctx context.Context, tempID string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	meta, ok := s.files[tempID]
	if ok {
		delete(s.files, tempID)
	}
	s.mu.Unlock()

	if !ok {
		// Fall back to the mirrored metadata after a restart.
		var err error
		meta, err = s.readMeta(tempID)
		if err != nil {
			return nil, ErrNotFound
		}
	}

	path := filepath.Join(s.dir, tempID)
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrNotFound
	}

	return &File{
		ID:          tempID,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		Path:        path,
		Reader:      &claimedFile{File: f, path: path, metaPath: s.metaPath(tempID)},
	}, nil
}

// Cleanup removes temp files older than maxAge, including orphans left by
// a previous process.
func (s *DiskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	for tempID, meta := range s.files {
		if meta.CreatedAt.Before(cutoff) {
			delete(s.files, tempID)
			os.Remove(filepath.Join(s.dir, tempID))
			os.Remove(s.metaPath(tempID))
		}
	}
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.dir, entry.Name()))
		}
	}
	return nil
}

func (s *DiskStore) metaPath(tempID string) string {
	return filepath.Join(s.dir, tempID+".meta")
}

func (s *DiskStore) writeMeta(tempID string, meta *fileMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(tempID), data, 0o644)
}

func (s *DiskStore) readMeta(tempID string) (*fileMeta, error) {
	data, err := os.ReadFile(s.metaPath(tempID))
	if err != nil {
		return nil, err
	}
	var meta fileMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// newTempID generates a cryptographically random temp ID.
func newTempID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// claimedFile deletes the backing file and its metadata on close.
type claimedFile struct {
	*os.File
	path     string
	metaPath string
}

func (c *claimedFile) Close() error {
	err := c.File.Close()
	os.Remove(c.path)
	os.Remove(c.metaPath)
	return err
}
