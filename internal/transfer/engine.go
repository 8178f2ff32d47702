package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/secstash/secstash/internal/cipher"
	"github.com/secstash/secstash/internal/digest"
	serrors "github.com/secstash/secstash/internal/errors"
	logger "github.com/secstash/secstash/internal/logging"
	"github.com/secstash/secstash/internal/manifest"
	"github.com/secstash/secstash/internal/rules"
)

// Engine drives resolved operations through the export or import state
// machine. Operations are independent; the only shared mutable state is
// the per-directory manifest, which the engine serializes internally.
type Engine struct {
	Cipher     *cipher.Cipher
	Passphrase string
	Log        logger.Logger

	// FailFast stops scheduling new operations after the first failure.
	// The failing operation still runs to its terminal state.
	FailFast bool

	// Jobs bounds the worker pool. Values below 2 mean strictly
	// sequential processing, the baseline correctness model.
	Jobs int

	// CleanOnFailure removes ciphertext files this run wrote into a
	// directory where a sibling operation later failed. Off by default:
	// successes stay in place and failures are reported individually.
	CleanOnFailure bool
}

type opStatus int

const (
	opDone opStatus = iota
	opSkipped
)

type opFunc func(op rules.Operation) (opStatus, error)

// runOps executes operations sequentially or through a bounded pool,
// collecting per-operation failures into the report. Cancellation is
// honored at operation boundaries only.
func (e *Engine) runOps(ctx context.Context, ops []rules.Operation, report *Report, run opFunc) error {
	if e.Jobs > 1 {
		return e.runParallel(ctx, ops, report, run)
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		status, err := run(op)
		if err != nil {
			report.addFailure(op.EndpointPath, err)
			e.Log.Debugf("operation %s failed: %v", op.EndpointPath, err)
			if e.FailFast {
				break
			}
			continue
		}
		report.markDone(status)
	}
	return nil
}

func (e *Engine) runParallel(ctx context.Context, ops []rules.Operation, report *Report, run opFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.Jobs)

	for _, op := range ops {
		op := op
		g.Go(func() error {
			// Operation boundary: don't start new work once the run is
			// cancelled or (under FailFast) a sibling has failed.
			if gctx.Err() != nil {
				return nil
			}
			status, err := run(op)
			if err != nil {
				report.addFailure(op.EndpointPath, err)
				e.Log.Debugf("operation %s failed: %v", op.EndpointPath, err)
				if e.FailFast {
					// Cancel gctx so queued operations stop scheduling.
					return err
				}
				return nil
			}
			report.markDone(status)
			return nil
		})
	}

	// A FailFast error is already in the report, so it is not
	// propagated; cancellation of the parent context is.
	_ = g.Wait()
	return ctx.Err()
}

// manifestStore serializes manifest appends across workers and tracks
// which directory manifests a run touched. Existing manifests are
// loaded lazily so re-exports replace entries instead of duplicating
// them.
type manifestStore struct {
	mu    sync.Mutex
	root  string
	byDir map[string]*manifest.Manifest
}

func newManifestStore(root string) *manifestStore {
	return &manifestStore{root: root, byDir: make(map[string]*manifest.Manifest)}
}

func (s *manifestStore) dirManifest(relDir string) (*manifest.Manifest, error) {
	if m, ok := s.byDir[relDir]; ok {
		return m, nil
	}
	m, err := manifest.Load(filepath.Join(s.root, relDir))
	if err != nil {
		if !isMissingManifest(err) {
			return nil, err
		}
		m = manifest.New()
	}
	s.byDir[relDir] = m
	return m, nil
}

func (s *manifestStore) append(relDir, file string, d digest.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.dirManifest(relDir)
	if err != nil {
		return err
	}
	m.Append(file, d)
	return nil
}

func (s *manifestStore) remove(relDir, file string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.byDir[relDir]; ok {
		m.Remove(file)
	}
}

// flush writes every touched manifest. A manifest write failure is
// fatal to the run: without the manifest the whole directory's exports
// are unverifiable.
func (s *manifestStore) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for relDir, m := range s.byDir {
		if err := m.WriteFile(filepath.Join(s.root, relDir)); err != nil {
			return fmt.Errorf("flushing manifest for %s: %w", relDir, err)
		}
	}
	return nil
}

func isMissingManifest(err error) bool {
	return errors.Is(err, serrors.ErrManifestMissing)
}

// splitEndpoint splits an endpoint-relative path into its directory and
// file name.
func splitEndpoint(endpointPath string) (relDir, file string) {
	relDir = filepath.Dir(endpointPath)
	if relDir == "." {
		relDir = ""
	}
	return relDir, filepath.Base(endpointPath)
}

// ensureParentDirs creates the parent directories of path.
func ensureParentDirs(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return nil
}
