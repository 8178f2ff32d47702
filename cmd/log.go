package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/secstash/secstash/internal/audit"
	"github.com/secstash/secstash/internal/ui"
	"github.com/secstash/secstash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logProfile   string
	logJSON      bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View past export, verify-export, and import runs",
	Long: `Displays the audit log of past runs: when each export, verify-export,
or import happened, for which profile, and how many files it completed,
skipped, failed, or verified.

Examples:
  secstash log                         # View full log
  secstash log -n 10                   # Last 10 entries
  secstash log --reverse               # Most recent first
  secstash log --operation export      # Only export runs
  secstash log --json                  # JSON output`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		result, err := workflows.Log(cmd.Context(), workflows.LogOptions{
			Limit:      logLimit,
			Reverse:    logReverse,
			Operations: logOperation,
			Profile:    logProfile,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read audit log: %v", err)
		}

		if len(result.Entries) == 0 {
			if result.TotalEntriesBeforeFilter == 0 {
				fmt.Println(ui.Info.Sprint("ℹ") + " No audit log entries found. Runs are logged after any " +
					ui.Code.Sprint("secstash") + " command.")
			} else {
				fmt.Println(ui.Info.Sprint("ℹ") + " No audit log entries found matching the filters.")
			}
			return nil
		}

		if logJSON {
			return outputLogJSON(result.Entries)
		}
		for _, e := range result.Entries {
			fmt.Printf("%-19s  %-14s  %-12s  %s\n",
				workflows.FormatDateTime(e.Timestamp), e.Operation, e.Profile, workflows.FormatDetails(e))
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().StringVar(&logProfile, "filter-profile", "", "filter by the profile a run was made for")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logProfile = ""
	logJSON = false
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
