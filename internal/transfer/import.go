package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/secstash/secstash/internal/digest"
	serrors "github.com/secstash/secstash/internal/errors"
	"github.com/secstash/secstash/internal/manifest"
	"github.com/secstash/secstash/internal/rules"
)

// Import runs the import state machine for every operation, reading
// ciphertext from the export tree at root and placing plaintext at each
// operation's source path. Individual failures are collected into the
// report; only cancellation aborts the run.
func (e *Engine) Import(ctx context.Context, root string, ops []rules.Operation) (*Report, error) {
	report := &Report{}

	runErr := e.runOps(ctx, ops, report, func(op rules.Operation) (opStatus, error) {
		return e.importOne(root, op, report)
	})
	if runErr != nil {
		return report, runErr
	}

	report.sortFailures()
	return report, nil
}

// importOne is the per-operation state machine:
// PreCheck → Decrypt → PostCheck → place → Metadata Copy → Symlink.
func (e *Engine) importOne(root string, op rules.Operation, report *Report) (opStatus, error) {
	cipherPath := filepath.Join(root, op.EndpointPath)
	relDir, file := splitEndpoint(op.EndpointPath)

	// PreCheck: the ciphertext must still match the manifest written at
	// export time. A mismatch means the export tree is damaged; this
	// operation is not attempted.
	m, err := manifest.Load(filepath.Join(root, relDir))
	if err != nil {
		return opDone, err
	}
	want, ok := m.Lookup(file)
	if !ok {
		return opDone, fmt.Errorf("%w: %s has no manifest entry", serrors.ErrIntegrity, op.EndpointPath)
	}
	got, err := digest.SumFile(cipherPath)
	if err != nil {
		return opDone, fmt.Errorf("reading ciphertext %s: %w", cipherPath, err)
	}
	if !digest.Equal(want, got) {
		return opDone, fmt.Errorf("%w: ciphertext %s does not match its manifest entry",
			serrors.ErrIntegrity, op.EndpointPath)
	}

	meta, err := readMeta(cipherPath)
	if err != nil {
		return opDone, fmt.Errorf("reading ciphertext metadata %s: %w", cipherPath, err)
	}

	ciphertext, err := os.ReadFile(cipherPath)
	if err != nil {
		return opDone, fmt.Errorf("reading ciphertext %s: %w", cipherPath, err)
	}
	payload, err := e.Cipher.Decrypt(ciphertext, e.Passphrase)
	if err != nil {
		return opDone, fmt.Errorf("decrypting %s: %w", op.EndpointPath, err)
	}

	// PostCheck: the recovered plaintext must match the digest that was
	// sealed inside at export time. Verified before anything touches
	// the disk, so a failed operation leaves no partial plaintext.
	plaintext, err := verifyPayload(payload)
	if err != nil {
		return opDone, fmt.Errorf("%s: %w", op.EndpointPath, err)
	}

	if err := ensureParentDirs(op.SourcePath); err != nil {
		return opDone, err
	}
	if err := safeWrite(op.SourcePath, plaintext, meta.mode); err != nil {
		return opDone, err
	}
	if err := applyMeta(op.SourcePath, meta); err != nil {
		return opDone, err
	}
	e.Log.Infof("imported: %s", op.SourcePath)

	// Symlink strictly follows successful placement. A conflict is
	// non-fatal: the secret itself is in place and verified.
	if op.SymlinkPath != "" {
		// The link points at the placed file's absolute path, so it
		// stays valid regardless of where it is resolved from.
		target, err := filepath.Abs(op.SourcePath)
		if err != nil {
			target = op.SourcePath
		}
		if err := ensureSymlink(op.SymlinkPath, target); err != nil {
			report.addLinkFailure(op.EndpointPath, err)
			e.Log.Warnf("symlink for %s: %v", op.SourcePath, err)
		}
	}

	return opDone, nil
}

// ensureSymlink creates a symlink at linkPath pointing to target. An
// existing link that already points at target is fine; anything else
// occupying the path is refused with ErrLink, never silently replaced.
func ensureSymlink(linkPath, target string) error {
	info, err := os.Lstat(linkPath)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%w: %s exists and is not a symlink", serrors.ErrLink, linkPath)
		}
		dest, err := os.Readlink(linkPath)
		if err != nil {
			return fmt.Errorf("%w: reading existing link %s: %v", serrors.ErrLink, linkPath, err)
		}
		if dest != target {
			return fmt.Errorf("%w: %s points at %s, not %s", serrors.ErrLink, linkPath, dest, target)
		}
		return nil

	case !os.IsNotExist(err):
		return fmt.Errorf("%w: checking %s: %v", serrors.ErrLink, linkPath, err)
	}

	if err := ensureParentDirs(linkPath); err != nil {
		return fmt.Errorf("%w: %v", serrors.ErrLink, err)
	}
	if err := os.Symlink(target, linkPath); err != nil {
		return fmt.Errorf("%w: %v", serrors.ErrLink, err)
	}
	return nil
}
