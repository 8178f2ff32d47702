package transfer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/secstash/secstash/internal/digest"
	serrors "github.com/secstash/secstash/internal/errors"
	"github.com/secstash/secstash/internal/manifest"
	"github.com/secstash/secstash/internal/rules"
)

// Export runs the export state machine for every operation against the
// destination root and flushes the directory manifests. Individual
// operation failures are collected into the report; only cancellation
// and manifest-write failures are returned as errors.
//
// The closing integrity pass over the written tree is the caller's
// responsibility (see the verify package).
func (e *Engine) Export(ctx context.Context, root string, ops []rules.Operation) (*Report, error) {
	report := &Report{}
	store := newManifestStore(root)
	written := &writtenSet{byDir: make(map[string][]string)}

	runErr := e.runOps(ctx, ops, report, func(op rules.Operation) (opStatus, error) {
		status, err := e.exportOne(root, op, store)
		if err == nil && status == opDone {
			relDir, file := splitEndpoint(op.EndpointPath)
			written.add(relDir, file)
		}
		return status, err
	})
	if runErr != nil {
		return report, runErr
	}

	if e.CleanOnFailure && report.Failed() {
		e.cleanFailedDirs(root, report, written, store)
	}

	if err := store.flush(); err != nil {
		return report, err
	}

	report.sortFailures()
	return report, nil
}

// exportOne is the per-operation state machine:
// PreCheck → Encrypt → self-check → Metadata Copy → Manifest Update.
func (e *Engine) exportOne(root string, op rules.Operation, store *manifestStore) (opStatus, error) {
	content, err := os.ReadFile(op.SourcePath)
	if err != nil {
		return opDone, fmt.Errorf("reading source %s: %w", op.SourcePath, err)
	}
	if err := verifySourceEntry(op.SourcePath, content); err != nil {
		return opDone, err
	}
	plainDigest := digest.Sum(content)

	endpoint := filepath.Join(root, op.EndpointPath)
	if err := ensureParentDirs(endpoint); err != nil {
		return opDone, err
	}
	relDir, file := splitEndpoint(op.EndpointPath)

	existing, err := os.ReadFile(endpoint)
	switch {
	case err == nil:
		// An endpoint file already exists. Accept it only if it
		// decrypts to exactly the source content; never overwrite.
		payload, err := e.Cipher.Decrypt(existing, e.Passphrase)
		if err != nil {
			return opDone, fmt.Errorf("existing ciphertext %s: %w", endpoint, err)
		}
		plain, err := verifyPayload(payload)
		if err != nil {
			return opDone, fmt.Errorf("existing ciphertext %s: %w", endpoint, err)
		}
		if !bytes.Equal(plain, content) {
			return opDone, fmt.Errorf("%w: %s decrypts to different content than %s",
				serrors.ErrConflict, endpoint, op.SourcePath)
		}
		// Metadata is read right before it is copied, so a chmod or
		// chown of the source since the content read still lands.
		meta, err := readMeta(op.SourcePath)
		if err != nil {
			return opDone, fmt.Errorf("reading source metadata %s: %w", op.SourcePath, err)
		}
		if err := applyMeta(endpoint, meta); err != nil {
			return opDone, err
		}
		if err := store.append(relDir, file, digest.Sum(existing)); err != nil {
			return opDone, err
		}
		e.Log.Infof("already exported: %s", op.EndpointPath)
		return opSkipped, nil

	case !os.IsNotExist(err):
		return opDone, fmt.Errorf("checking endpoint %s: %w", endpoint, err)
	}

	ciphertext, err := e.Cipher.Encrypt(wrapPayload(plainDigest, content), e.Passphrase)
	if err != nil {
		return opDone, fmt.Errorf("encrypting %s: %w", op.SourcePath, err)
	}

	meta, err := readMeta(op.SourcePath)
	if err != nil {
		return opDone, fmt.Errorf("reading source metadata %s: %w", op.SourcePath, err)
	}
	if err := e.placeCiphertext(endpoint, ciphertext, content, meta); err != nil {
		return opDone, err
	}

	if err := store.append(relDir, file, digest.Sum(ciphertext)); err != nil {
		return opDone, err
	}
	e.Log.Infof("exported: %s", op.EndpointPath)
	return opDone, nil
}

// placeCiphertext writes ciphertext through a temporary sibling, checks
// that what landed on disk decrypts back to the source content, applies
// the source metadata, and renames into place. A failure at any step
// removes the temporary file so no partial ciphertext remains.
func (e *Engine) placeCiphertext(endpoint string, ciphertext, content []byte, meta fileMeta) (err error) {
	tmp := endpoint + ".partial"
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err := os.WriteFile(tmp, ciphertext, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}

	// Self-check: re-read from disk and decrypt, so disk-level
	// corruption is caught before the export is trusted.
	readBack, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("reading back %s: %w", tmp, err)
	}
	payload, err := e.Cipher.Decrypt(readBack, e.Passphrase)
	if err != nil {
		return fmt.Errorf("verifying written ciphertext %s: %w", endpoint, err)
	}
	plain, err := verifyPayload(payload)
	if err != nil {
		return fmt.Errorf("verifying written ciphertext %s: %w", endpoint, err)
	}
	if !bytes.Equal(plain, content) {
		return fmt.Errorf("%w: written ciphertext %s does not decrypt to the source content",
			serrors.ErrIntegrity, endpoint)
	}

	if err := applyMeta(tmp, meta); err != nil {
		return err
	}
	if err := os.Rename(tmp, endpoint); err != nil {
		return fmt.Errorf("placing %s: %w", endpoint, err)
	}
	return nil
}

// verifySourceEntry checks the source file against its own directory's
// sha256sums.txt when the source tree maintains one. A source tree
// without a manifest is fine; a recorded digest that no longer matches
// means the source itself is suspect and must not be exported.
func verifySourceEntry(sourcePath string, content []byte) error {
	m, err := manifest.Load(filepath.Dir(sourcePath))
	if err != nil {
		if isMissingManifest(err) {
			return nil
		}
		return err
	}
	want, ok := m.Lookup(filepath.Base(sourcePath))
	if !ok {
		return nil
	}
	if !digest.Equal(want, digest.Sum(content)) {
		return fmt.Errorf("%w: source %s does not match its recorded checksum",
			serrors.ErrIntegrity, sourcePath)
	}
	return nil
}

// writtenSet tracks the ciphertext files a run wrote, per directory.
type writtenSet struct {
	mu    sync.Mutex
	byDir map[string][]string
}

func (w *writtenSet) add(relDir, file string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.byDir[relDir] = append(w.byDir[relDir], file)
}

// cleanFailedDirs removes this run's ciphertext files from directories
// where a sibling operation failed, together with their manifest
// entries. Enabled by CleanOnFailure; pre-existing exports are never
// touched.
func (e *Engine) cleanFailedDirs(root string, report *Report, written *writtenSet, store *manifestStore) {
	failedDirs := make(map[string]bool)
	for _, f := range report.Failures {
		relDir, _ := splitEndpoint(f.Path)
		failedDirs[relDir] = true
	}

	written.mu.Lock()
	defer written.mu.Unlock()
	for relDir, files := range written.byDir {
		if !failedDirs[relDir] {
			continue
		}
		for _, file := range files {
			path := filepath.Join(root, relDir, file)
			if err := os.Remove(path); err != nil {
				e.Log.Warnf("cleanup of %s failed: %v", path, err)
				continue
			}
			store.remove(relDir, file)
			e.Log.Infof("removed %s after sibling failure", path)
		}
	}
}
