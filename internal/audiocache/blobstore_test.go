package audiocache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewFileBlobStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")

	store, err := NewFileBlobStore(dir)
	if err != nil {
		t.Fatalf("NewFileBlobStore failed: %v", err)
	}

	if store.Dir() != dir {
		t.Errorf("expected dir %s, got %s", dir, store.Dir())
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("blob cache directory was not created")
	}
}

func TestCacheKey_StableAndDistinct(t *testing.T) {
	a := CacheKey("https://cdn.example.com/001.mp3")
	b := CacheKey("https://cdn.example.com/001.mp3")
	c := CacheKey("https://cdn.example.com/002.mp3")

	if a != b {
		t.Errorf("same URL produced different keys: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different URLs produced the same key")
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}
}

func TestWriter_CommitPublishesBlob(t *testing.T) {
	store, _ := NewFileBlobStore(t.TempDir())

	w, err := store.Writer("key1")
	if err != nil {
		t.Fatalf("Writer failed: %v", err)
	}
	if _, err := w.Write([]byte("audio payload")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Not visible until commit
	if store.Has("key1") {
		t.Error("blob visible before Commit")
	}

	if err := w.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if !store.Has("key1") {
		t.Fatal("blob not visible after Commit")
	}
	size, err := store.Size("key1")
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != int64(len("audio payload")) {
		t.Errorf("expected size %d, got %d", len("audio payload"), size)
	}
}

func TestWriter_AbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileBlobStore(dir)

	w, _ := store.Writer("key1")
	_, _ = w.Write([]byte("partial"))
	if err := w.Abort(); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}

	if store.Has("key1") {
		t.Error("blob visible after Abort")
	}

	// No staging files left behind either
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty cache dir after abort, found %d entries", len(entries))
	}
}

func TestRemove_IsIdempotent(t *testing.T) {
	store, _ := NewFileBlobStore(t.TempDir())

	w, _ := store.Writer("key1")
	_, _ = w.Write([]byte("payload"))
	_ = w.Commit()

	if err := store.Remove("key1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Remove("key1"); err != nil {
		t.Errorf("second Remove errored: %v", err)
	}
	if store.Has("key1") {
		t.Error("blob still present after Remove")
	}
}

func TestPath_MissingKeyErrors(t *testing.T) {
	store, _ := NewFileBlobStore(t.TempDir())

	if _, err := store.Path("absent"); err == nil {
		t.Error("expected error for absent key")
	}
}
