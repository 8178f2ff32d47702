package workflows

import (
	"context"
	"fmt"

	"github.com/secstash/secstash/internal/audit"
	"github.com/secstash/secstash/internal/cipher"
	"github.com/secstash/secstash/internal/config"
	logger "github.com/secstash/secstash/internal/logging"
	"github.com/secstash/secstash/internal/rules"
	"github.com/secstash/secstash/internal/transfer"
)

// ImportOptions configures the import workflow.
type ImportOptions struct {
	// Source is the export tree to import from.
	Source string

	// Profile is the active machine profile.
	Profile string

	// Passphrase decrypts the imported files. Held for the run only.
	Passphrase string

	// FailFast stops scheduling operations after the first failure.
	FailFast bool

	// Jobs bounds the worker pool; values below 2 run sequentially.
	Jobs int

	// Config overrides configuration loading (used by tests).
	Config *config.Config

	// Cipher overrides the default cipher (used by tests).
	Cipher *cipher.Cipher

	Logger logger.Logger
}

// ImportResult contains the outcome of an import run.
type ImportResult struct {
	// Operations is the number of resolved operations.
	Operations int

	// Completed counts operations that reached Success.
	Completed int

	// Failures are the failed operations.
	Failures []transfer.Failure

	// LinkFailures are symlink conflicts; the affected files were still
	// placed and verified.
	LinkFailures []transfer.Failure
}

// OK reports whether every operation succeeded. Link failures alone do
// not fail a run.
func (r *ImportResult) OK() bool {
	return len(r.Failures) == 0
}

// Import resolves the import rules for the profile and places every
// file from the export tree back at its declared source path.
func Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, err
		}
	}

	ops, err := rules.Resolve(cfg, opts.Profile, rules.Import)
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("resolved %d import operations for profile %s", len(ops), opts.Profile)

	engine := &transfer.Engine{
		Cipher:     cipherOrDefault(opts.Cipher),
		Passphrase: opts.Passphrase,
		Log:        opts.Logger,
		FailFast:   opts.FailFast,
		Jobs:       opts.Jobs,
	}
	report, err := engine.Import(ctx, opts.Source, ops)
	if err != nil {
		return nil, fmt.Errorf("import from %s: %w", opts.Source, err)
	}

	result := &ImportResult{
		Operations:   len(ops),
		Completed:    report.Completed,
		Failures:     report.Failures,
		LinkFailures: report.LinkFailures,
	}

	audit.Log(audit.Entry{
		Operation: "import",
		Profile:   opts.Profile,
		Root:      opts.Source,
		Completed: result.Completed,
		Failed:    len(result.Failures),
	})

	return result, nil
}
