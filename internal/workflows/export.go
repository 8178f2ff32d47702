package workflows

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/secstash/secstash/internal/audit"
	"github.com/secstash/secstash/internal/cipher"
	"github.com/secstash/secstash/internal/config"
	"github.com/secstash/secstash/internal/digest"
	serrors "github.com/secstash/secstash/internal/errors"
	logger "github.com/secstash/secstash/internal/logging"
	"github.com/secstash/secstash/internal/manifest"
	"github.com/secstash/secstash/internal/rules"
	"github.com/secstash/secstash/internal/transfer"
	"github.com/secstash/secstash/internal/verify"
)

// ExportOptions configures the export workflow.
type ExportOptions struct {
	// Destination is the export tree root.
	Destination string

	// Profile is the active machine profile.
	Profile string

	// Passphrase encrypts every exported file. Held for the run only.
	Passphrase string

	// FailFast stops scheduling operations after the first failure.
	FailFast bool

	// Jobs bounds the worker pool; values below 2 run sequentially.
	Jobs int

	// CleanOnFailure removes this run's ciphertext siblings in
	// directories where an operation failed.
	CleanOnFailure bool

	// Config overrides configuration loading (used by tests). When nil
	// the configuration is located and loaded from disk.
	Config *config.Config

	// Cipher overrides the default cipher (used by tests to lower the
	// scrypt work factor).
	Cipher *cipher.Cipher

	Logger logger.Logger
}

// ExportResult contains the outcome of an export run, including the
// mandatory closing integrity pass. Engine failures and verification
// failures are reported distinctly: a file can transfer successfully
// and still fail the closing pass.
type ExportResult struct {
	// Operations is the number of resolved operations.
	Operations int

	// Completed and Skipped count operations that reached Success.
	Completed int
	Skipped   int

	// Failures are the transfer engine's failed operations.
	Failures []transfer.Failure

	// Verified counts files that passed the closing integrity pass.
	Verified int

	// VerifyFailed lists files that failed the closing pass.
	VerifyFailed []string

	// VerifyProblems lists manifests the closing pass could not check.
	VerifyProblems []verify.Problem
}

// OK reports whether every operation and the closing pass succeeded.
func (r *ExportResult) OK() bool {
	return len(r.Failures) == 0 && len(r.VerifyFailed) == 0 && len(r.VerifyProblems) == 0
}

// Export resolves the export rules for the profile, runs the transfer
// engine against the destination, and closes with an integrity pass
// over the written tree.
//
// Rule resolution errors and manifest-write failures abort the run and
// are returned as errors; per-operation failures are collected in the
// result.
func Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, err
		}
	}

	ops, err := rules.Resolve(cfg, opts.Profile, rules.Export)
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("resolved %d export operations for profile %s", len(ops), opts.Profile)

	engine := &transfer.Engine{
		Cipher:         cipherOrDefault(opts.Cipher),
		Passphrase:     opts.Passphrase,
		Log:            opts.Logger,
		FailFast:       opts.FailFast,
		Jobs:           opts.Jobs,
		CleanOnFailure: opts.CleanOnFailure,
	}
	report, err := engine.Export(ctx, opts.Destination, ops)
	if err != nil {
		return nil, fmt.Errorf("export to %s: %w", opts.Destination, err)
	}

	// The backup is self-contained: the configuration that produced it
	// travels with it, checksummed like every other exported file.
	if err := exportConfig(opts.Destination, cfg); err != nil {
		return nil, fmt.Errorf("exporting configuration: %w", err)
	}

	// The closing integrity pass is mandatory: it re-reads everything
	// the manifests certify, independent of the engine.
	verifyResult, err := verify.Verify(opts.Destination)
	if err != nil {
		return nil, fmt.Errorf("closing integrity pass: %w", err)
	}

	result := &ExportResult{
		Operations:     len(ops),
		Completed:      report.Completed,
		Skipped:        report.Skipped,
		Failures:       report.Failures,
		Verified:       len(verifyResult.Passed),
		VerifyFailed:   verifyResult.Failed,
		VerifyProblems: verifyResult.Problems,
	}

	audit.Log(audit.Entry{
		Operation: "export",
		Profile:   opts.Profile,
		Root:      opts.Destination,
		Completed: result.Completed,
		Skipped:   result.Skipped,
		Failed:    len(result.Failures),
		Verified:  result.Verified,
		Mismatch:  len(result.VerifyFailed),
	})

	return result, nil
}

// exportConfig writes the active configuration into the export root and
// records it in the root manifest, so a backup can be restored on a
// bare machine without the local config. Cleartext: the rules describe
// file locations, not secrets.
func exportConfig(root string, cfg *config.Config) error {
	path := filepath.Join(root, config.FileName)
	if err := config.SaveTOML(path, cfg); err != nil {
		return err
	}
	d, err := digest.SumFile(path)
	if err != nil {
		return err
	}

	m, err := manifest.Load(root)
	if err != nil {
		if !errors.Is(err, serrors.ErrManifestMissing) {
			return err
		}
		m = manifest.New()
	}
	m.Append(config.FileName, d)
	return m.WriteFile(root)
}

func cipherOrDefault(c *cipher.Cipher) *cipher.Cipher {
	if c != nil {
		return c
	}
	return cipher.New()
}
