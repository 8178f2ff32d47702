package transfer

import (
	"bytes"
	"fmt"
	"os"

	serrors "github.com/secstash/secstash/internal/errors"
)

// safeWrite writes content to path unless a file already exists there.
// An existing file with identical content is left alone; an existing
// file with different content is refused with ErrConflict rather than
// silently overwritten.
func safeWrite(path string, content []byte, mode os.FileMode) error {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if !bytes.Equal(existing, content) {
			return fmt.Errorf("%w: %s", serrors.ErrConflict, path)
		}
		return nil
	case os.IsNotExist(err):
		// #nosec G306 -- mode is copied from the ciphertext file's own bits.
		if err := os.WriteFile(path, content, mode); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("checking existing %s: %w", path, err)
	}
}
