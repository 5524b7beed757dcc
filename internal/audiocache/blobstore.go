package audiocache

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BlobStore is a key-value binary store for downloaded audio payloads,
// independent of the metadata store. The host may evict blobs externally at
// any time (storage pressure), so callers re-verify presence on every read
// path instead of trusting metadata.
type BlobStore interface {
	// Writer opens a staging writer for key. The blob only becomes visible
	// once Commit is called; Abort discards the partial payload.
	Writer(key string) (BlobWriter, error)
	// Has reports whether a committed payload exists for key.
	Has(key string) bool
	// Path returns the filesystem path of a committed payload.
	Path(key string) (string, error)
	// Size returns the byte size of a committed payload.
	Size(key string) (int64, error)
	// Remove deletes the payload for key. No-op if absent.
	Remove(key string) error
}

// BlobWriter stages one payload. Exactly one of Commit or Abort must be
// called.
type BlobWriter interface {
	io.Writer
	Commit() error
	Abort() error
}

// CacheKey derives the blob cache key for a source URL.
func CacheKey(sourceURL string) string {
	hash := sha256.Sum256([]byte(sourceURL))
	return fmt.Sprintf("%x", hash[:16])
}

// FileBlobStore stores payloads as files in a single directory, one file
// per key. Writes go to a temp file in the same directory and are renamed
// into place on commit, so a committed blob is never partial.
type FileBlobStore struct {
	dir string
}

// NewFileBlobStore creates a blob store at the specified directory.
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create blob cache dir: %w", err)
	}
	return &FileBlobStore{dir: dir}, nil
}

// Dir returns the blob cache directory path.
func (s *FileBlobStore) Dir() string {
	return s.dir
}

func (s *FileBlobStore) blobPath(key string) string {
	return filepath.Join(s.dir, "audio_"+key+".bin")
}

func (s *FileBlobStore) Writer(key string) (BlobWriter, error) {
	tmp, err := os.CreateTemp(s.dir, "audio_tmp_")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	return &fileBlobWriter{file: tmp, finalPath: s.blobPath(key)}, nil
}

func (s *FileBlobStore) Has(key string) bool {
	_, err := os.Stat(s.blobPath(key))
	return err == nil
}

func (s *FileBlobStore) Path(key string) (string, error) {
	path := s.blobPath(key)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FileBlobStore) Size(key string) (int64, error) {
	info, err := os.Stat(s.blobPath(key))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *FileBlobStore) Remove(key string) error {
	err := os.Remove(s.blobPath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

type fileBlobWriter struct {
	file      *os.File
	finalPath string
}

func (w *fileBlobWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *fileBlobWriter) Commit() error {
	if err := w.file.Close(); err != nil {
		os.Remove(w.file.Name())
		return err
	}
	return os.Rename(w.file.Name(), w.finalPath)
}

func (w *fileBlobWriter) Abort() error {
	w.file.Close()
	err := os.Remove(w.file.Name())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
