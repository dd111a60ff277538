package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when a temp file doesn't exist or was already
// claimed.
var ErrNotFound = errors.New("upload: file not found")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// FileField is the multipart form field the upload handler reads.
const FileField = "file"

// TempIDSuffix is appended to a file control's name to form the hidden
// field carrying its temp ID in the regular submission.
const TempIDSuffix = "_temp_id"

// DefaultMaxFileSize bounds uploads when no limit is configured.
const DefaultMaxFileSize = 10 << 20

// Store is a temp storage backend for uploaded files.
type Store interface {
	// Save stores the uploaded file and returns its temp ID.
	Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (tempID string, err error)

	// Claim takes ownership of a temp file. The file is consumed: a
	// second claim for the same ID returns ErrNotFound.
	Claim(ctx context.Context, tempID string) (*File, error)

	// Cleanup removes temp files older than maxAge. Call periodically.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// File is a claimed upload.
type File struct {
	ID          string
	Filename    string // Original client filename
	ContentType string
	Size        int64

	// Path is the local filesystem path (DiskStore).
	Path string

	// URL is a remote access URL (S3Store).
	URL string

	// Reader provides the file contents. Close it when done; disk-backed
	// files are deleted on close.
	Reader io.ReadCloser
}

// Close closes the file reader if open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// TempID extracts the temp ID a submission carries for the named file
// control, or "".
func TempID(values url.Values, field string) string {
	return values.Get(field + TempIDSuffix)
}

// Option configures the upload handler.
type Option func(*handler)

// WithMaxFileSize sets the maximum accepted file size in bytes.
func WithMaxFileSize(n int64) Option {
	return func(h *handler) {
		h.maxSize = n
	}
}

// WithLogger sets the handler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *handler) {
		h.logger = logger
	}
}

type handler struct {
	store   Store
	maxSize int64
	logger  *slog.Logger
}

// Handler returns the HTTP handler that accepts multipart uploads and
// responds with the stored file's temp ID:
//
//	{"temp_id": "abc123"}
func Handler(store Store, opts ...Option) http.Handler {
	h := &handler{
		store:   store,
		maxSize: DefaultMaxFileSize,
		logger:  slog.Default().With("component", "upload"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Bound the body before parsing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(FileField)
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tempID, err := h.store.Save(r.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Error("save failed", "filename", header.Filename, "error", err)
		http.Error(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("file stored",
		"temp_id", tempID,
		"filename", header.Filename,
		"size", header.Size)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"temp_id": tempID})
}
