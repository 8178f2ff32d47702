package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/secstash/secstash/internal/audit"
)

// LogOptions configures the audit-log listing.
type LogOptions struct {
	// Limit caps the number of entries returned; zero means all.
	Limit int

	// Reverse lists the most recent entries first.
	Reverse bool

	// Operations filters by operation name, comma-separated
	// (export, verify-export, import).
	Operations string

	// Profile filters by the profile the run was made for.
	Profile string
}

// LogResult holds the filtered audit entries.
type LogResult struct {
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the full log length, so callers can
	// distinguish an empty log from filters that matched nothing.
	TotalEntriesBeforeFilter int
}

// Log reads the audit log and applies the requested filters.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}

	wantOps := make(map[string]bool)
	for _, op := range strings.Split(opts.Operations, ",") {
		if op = strings.TrimSpace(op); op != "" {
			wantOps[op] = true
		}
	}

	for _, e := range entries {
		if len(wantOps) > 0 && !wantOps[e.Operation] {
			continue
		}
		if opts.Profile != "" && e.Profile != opts.Profile {
			continue
		}
		result.Entries = append(result.Entries, e)
	}

	if opts.Reverse {
		for i, j := 0, len(result.Entries)-1; i < j; i, j = i+1, j-1 {
			result.Entries[i], result.Entries[j] = result.Entries[j], result.Entries[i]
		}
	}
	if opts.Limit > 0 && len(result.Entries) > opts.Limit {
		result.Entries = result.Entries[:opts.Limit]
	}

	return result, nil
}

// FormatDateTime renders an entry timestamp for tabular output.
func FormatDateTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatDetails summarizes an entry's counters.
func FormatDetails(e audit.Entry) string {
	parts := []string{}
	if e.Completed > 0 {
		parts = append(parts, fmt.Sprintf("%d completed", e.Completed))
	}
	if e.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", e.Skipped))
	}
	if e.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", e.Failed))
	}
	if e.Verified > 0 {
		parts = append(parts, fmt.Sprintf("%d verified", e.Verified))
	}
	if e.Mismatch > 0 {
		parts = append(parts, fmt.Sprintf("%d mismatched", e.Mismatch))
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
