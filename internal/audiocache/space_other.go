//go:build !unix

package audiocache

import (
	"errors"
)

// availableBytes has no quota source on this platform; callers fall back to
// FallbackAvailableBytes.
func availableBytes(dir string) (int64, error) {
	return 0, errors.New("storage quota not available on this platform")
}
