package cmd

import (
	"fmt"
	"strconv"

	"github.com/secstash/secstash/internal/ui"
	"github.com/secstash/secstash/internal/workflows"

	"github.com/spf13/cobra"
)

var verifyExportCmd = &cobra.Command{
	Use:   "verify-export <root>",
	Short: "Checks an existing export tree against its manifests",
	Long: `Verify-export walks an export tree, loads every sha256sums.txt
manifest, and recomputes the checksum of each listed file. It needs no
configuration and no passphrase, so it can run anywhere a copy of the
export lives.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		Logger.Infof("Starting verify-export command")

		spinner, cleanup := startSpinner("Verifying export tree...", verbose)
		defer cleanup()

		result, err := workflows.VerifyExport(cmd.Context(), workflows.VerifyExportOptions{
			Root:    root,
			Profile: profile,
			Logger:  Logger,
		})
		if err != nil {
			finalMessage := ui.Error.Sprint("✗") + " Verification failed\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			spinner.FinalMSG = finalMessage
			return fmt.Errorf("verify-export failed: %w", err)
		}

		if result.OK() {
			finalMessage := ui.Success.Sprint("✓") + " Verified " +
				ui.Highlight.Sprint(strconv.Itoa(len(result.Passed))) + " files under " +
				ui.Path.Sprint(root)
			spinner.FinalMSG = finalMessage
			return nil
		}

		finalMessage := ui.Error.Sprint("✗") + " Verification found mismatches\n"
		for _, path := range result.Failed {
			finalMessage += ui.Error.Sprint("  ✗ ") + ui.Path.Sprint(path) + ": checksum mismatch or unreadable\n"
		}
		for _, p := range result.Problems {
			finalMessage += ui.Error.Sprint("  ✗ ") + ui.Path.Sprint(p.ManifestPath) + ": " + p.Err.Error() + "\n"
		}
		spinner.FinalMSG = finalMessage
		return fmt.Errorf("verification found %d mismatched files", len(result.Failed)+len(result.Problems))
	},
}
