package workflows

import (
	"context"

	"github.com/secstash/secstash/internal/audit"
	logger "github.com/secstash/secstash/internal/logging"
	"github.com/secstash/secstash/internal/verify"
)

// VerifyExportOptions configures the standalone verification workflow.
type VerifyExportOptions struct {
	// Root is the export tree to verify.
	Root string

	// Profile is recorded in the audit trail only; verification itself
	// needs no configuration and no passphrase.
	Profile string

	Logger logger.Logger
}

// VerifyExport runs the integrity verifier over an existing export
// tree. It is the same pass that closes every export, exposed for
// later-time re-verification.
func VerifyExport(ctx context.Context, opts VerifyExportOptions) (*verify.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := verify.Verify(opts.Root)
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("verified %d files under %s", len(result.Passed), opts.Root)

	audit.Log(audit.Entry{
		Operation: "verify-export",
		Profile:   opts.Profile,
		Root:      opts.Root,
		Verified:  len(result.Passed),
		Mismatch:  len(result.Failed) + len(result.Problems),
	})

	return result, nil
}
