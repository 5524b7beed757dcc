// Package audiocache downloads, verifies and evicts large audio assets for
// offline playback. Metadata rows and binary payloads live in two
// independently-failable stores; the blob cache is the ground truth for
// availability because the host can evict payloads under storage pressure
// without telling us.
package audiocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/Maagdy/Yaqeen-sub001/internal/entities"
)

// ErrCancelled reports a user-initiated abort of an in-flight download. It
// is a distinct outcome, not a failure: no retry, no partial state.
var ErrCancelled = errors.New("download cancelled")

const (
	downloadTimeout = 10 * time.Minute
	copyChunkSize   = 64 * 1024

	// FallbackAvailableBytes is reported when the host exposes no storage
	// quota.
	FallbackAvailableBytes = int64(500) * 1024 * 1024
)

// ProgressFunc receives percent-complete values (1-100) as bytes arrive.
// It is only invoked when the response declares a Content-Length; unknown
// total size skips progress reporting, which is acceptable degraded
// behavior, not an error.
type ProgressFunc func(percent int)

// MetadataStore is the persistence the cache service needs for asset rows.
type MetadataStore interface {
	Get(chapterNumber int, reciterID string) (*entities.CachedRecitation, error)
	Upsert(meta *entities.CachedRecitation) error
	Delete(chapterNumber int, reciterID string) error
	List() ([]entities.CachedRecitation, error)
	TotalSize() (int64, error)
}

// SpaceProber reports bytes available in the underlying storage quota.
type SpaceProber func(dir string) (int64, error)

// StorageStats reports bytes used by tracked downloads and bytes available
// in the underlying storage.
type StorageStats struct {
	UsedBytes      int64 `json:"used_bytes"`
	AvailableBytes int64 `json:"available_bytes"`
}

// Service is the content cache service for recitation audio.
type Service struct {
	metadata   MetadataStore
	blobs      BlobStore
	httpClient *http.Client
	space      SpaceProber
}

// NewService creates an audio cache service. space may be nil, in which
// case the platform prober is used with a static fallback.
func NewService(metadata MetadataStore, blobs BlobStore, space SpaceProber) *Service {
	if space == nil {
		space = availableBytes
	}
	return &Service{
		metadata: metadata,
		blobs:    blobs,
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		space: space,
	}
}

// Download streams the remote payload for one chapter/reciter pair into the
// blob cache and records metadata on full success. Cancelling ctx mid-stream
// unwinds without writing partial metadata or a partial blob and returns
// ErrCancelled.
//
// On success the payload is committed under a key derived from sourceURL and
// metadata is upserted, deleting any prior row for the same
// (chapterNumber, reciterID) key first.
func (s *Service) Download(ctx context.Context, chapterNumber int, reciterID, sourceURL string, onProgress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxCancelled(ctx, err) {
			return ErrCancelled
		}
		return fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch audio: status %d", resp.StatusCode)
	}

	key := CacheKey(sourceURL)
	writer, err := s.blobs.Writer(key)
	if err != nil {
		return fmt.Errorf("open blob writer: %w", err)
	}

	written, err := s.copyWithProgress(ctx, writer, resp.Body, resp.ContentLength, onProgress)
	if err != nil {
		_ = writer.Abort()
		if ctxCancelled(ctx, err) {
			log.Printf("[CACHE] download cancelled for chapter %d reciter %s", chapterNumber, reciterID)
			return ErrCancelled
		}
		return fmt.Errorf("stream audio: %w", err)
	}

	if err := writer.Commit(); err != nil {
		return fmt.Errorf("commit blob: %w", err)
	}

	meta := &entities.CachedRecitation{
		ChapterNumber: chapterNumber,
		ReciterID:     reciterID,
		SourceURL:     sourceURL,
		CacheKey:      key,
		FileSizeBytes: written,
		DownloadedAt:  time.Now(),
	}
	if err := s.metadata.Upsert(meta); err != nil {
		// Keep the two stores consistent: a blob without metadata is
		// invisible, so roll it back.
		_ = s.blobs.Remove(key)
		return fmt.Errorf("record download metadata: %w", err)
	}

	log.Printf("[CACHE] downloaded chapter %d reciter %s (%d bytes)", chapterNumber, reciterID, written)
	return nil
}

// copyWithProgress copies body to w in chunks, reporting percent progress
// when totalSize is known (positive).
func (s *Service) copyWithProgress(ctx context.Context, w io.Writer, body io.Reader, totalSize int64, onProgress ProgressFunc) (int64, error) {
	buf := make([]byte, copyChunkSize)
	var written int64
	lastPercent := 0

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)

			if totalSize > 0 && onProgress != nil {
				percent := int(written * 100 / totalSize)
				if percent > 100 {
					percent = 100
				}
				if percent > lastPercent {
					lastPercent = percent
					onProgress(percent)
				}
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// IsAvailableOffline reports whether the asset can be played without the
// network. True only if metadata exists AND the blob cache still holds the
// referenced payload at query time; metadata alone is not sufficient.
func (s *Service) IsAvailableOffline(chapterNumber int, reciterID string) (bool, error) {
	meta, err := s.metadata.Get(chapterNumber, reciterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up download metadata: %w", err)
	}
	return s.blobs.Has(meta.CacheKey), nil
}

// LocalPath returns the filesystem path of a downloaded asset for playback.
// Returns gorm.ErrRecordNotFound when the asset is not tracked.
func (s *Service) LocalPath(chapterNumber int, reciterID string) (string, error) {
	meta, err := s.metadata.Get(chapterNumber, reciterID)
	if err != nil {
		return "", err
	}
	return s.blobs.Path(meta.CacheKey)
}

// Remove deletes both the blob and its metadata. No-op if absent.
func (s *Service) Remove(chapterNumber int, reciterID string) error {
	meta, err := s.metadata.Get(chapterNumber, reciterID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up download metadata: %w", err)
	}

	if err := s.blobs.Remove(meta.CacheKey); err != nil {
		return fmt.Errorf("remove blob: %w", err)
	}
	if err := s.metadata.Delete(chapterNumber, reciterID); err != nil {
		return fmt.Errorf("remove download metadata: %w", err)
	}
	return nil
}

// Stats reports bytes used by tracked downloads (sum of recorded sizes) and
// bytes available in the underlying storage quota, falling back to a
// conservative static value when the host exposes none.
func (s *Service) Stats() (StorageStats, error) {
	used, err := s.metadata.TotalSize()
	if err != nil {
		return StorageStats{}, fmt.Errorf("sum tracked downloads: %w", err)
	}

	available := FallbackAvailableBytes
	if fileStore, ok := s.blobs.(*FileBlobStore); ok {
		if free, err := s.space(fileStore.Dir()); err == nil {
			available = free
		}
	}

	return StorageStats{UsedBytes: used, AvailableBytes: available}, nil
}

// VerifySweep drops metadata rows whose blob was evicted externally, so
// storage stats stay honest. Returns the number of rows dropped.
func (s *Service) VerifySweep() (int, error) {
	metas, err := s.metadata.List()
	if err != nil {
		return 0, fmt.Errorf("list tracked downloads: %w", err)
	}

	dropped := 0
	for _, meta := range metas {
		if s.blobs.Has(meta.CacheKey) {
			continue
		}
		if err := s.metadata.Delete(meta.ChapterNumber, meta.ReciterID); err != nil {
			return dropped, fmt.Errorf("drop evicted metadata: %w", err)
		}
		log.Printf("[CACHE] blob for chapter %d reciter %s evicted externally, dropped metadata",
			meta.ChapterNumber, meta.ReciterID)
		dropped++
	}
	return dropped, nil
}

func ctxCancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
