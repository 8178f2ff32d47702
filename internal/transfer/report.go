package transfer

import (
	"errors"
	"sort"
	"sync"

	serrors "github.com/secstash/secstash/internal/errors"
)

// FailureKind classifies an operation failure for the aggregate report.
type FailureKind string

const (
	KindIntegrity FailureKind = "integrity"
	KindCipher    FailureKind = "cipher"
	KindConflict  FailureKind = "conflict"
	KindLink      FailureKind = "link"
	KindIO        FailureKind = "io"
)

// kindOf maps an operation error onto its failure kind.
func kindOf(err error) FailureKind {
	switch {
	case errors.Is(err, serrors.ErrIntegrity),
		errors.Is(err, serrors.ErrManifestMissing),
		errors.Is(err, serrors.ErrManifestFormat):
		return KindIntegrity
	case errors.Is(err, serrors.ErrCipher):
		return KindCipher
	case errors.Is(err, serrors.ErrConflict):
		return KindConflict
	case errors.Is(err, serrors.ErrLink):
		return KindLink
	default:
		return KindIO
	}
}

// Failure names one failed operation by its endpoint-relative path.
type Failure struct {
	Path string
	Kind FailureKind
	Err  error
}

// Report aggregates the outcome of one transfer run. Individual
// operation failures are collected here, not propagated upward; only
// resolution-time config errors and manifest-write failures abort a run
// early.
type Report struct {
	mu sync.Mutex

	// Completed counts operations that reached their Success state.
	Completed int

	// Skipped counts export operations whose endpoint already held the
	// identical ciphertext.
	Skipped int

	// Failures are the failed operations, ordered by path.
	Failures []Failure

	// LinkFailures are symlink conflicts. Non-fatal: the imported file
	// itself was placed and verified.
	LinkFailures []Failure
}

// Failed reports whether any operation failed. Link failures alone do
// not fail the run.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

func (r *Report) addFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, Failure{Path: path, Kind: kindOf(err), Err: err})
}

func (r *Report) addLinkFailure(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LinkFailures = append(r.LinkFailures, Failure{Path: path, Kind: KindLink, Err: err})
}

func (r *Report) markDone(status opStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if status == opSkipped {
		r.Skipped++
	} else {
		r.Completed++
	}
}

// sortFailures orders failures by path so reports are stable regardless
// of worker scheduling.
func (r *Report) sortFailures() {
	sort.Slice(r.Failures, func(i, j int) bool { return r.Failures[i].Path < r.Failures[j].Path })
	sort.Slice(r.LinkFailures, func(i, j int) bool { return r.LinkFailures[i].Path < r.LinkFailures[j].Path })
}
