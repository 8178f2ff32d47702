package cmd

import (
	"fmt"
	"strconv"

	"github.com/secstash/secstash/internal/ui"
	"github.com/secstash/secstash/internal/utils"
	"github.com/secstash/secstash/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	exportFailFast       bool
	exportCleanOnFailure bool
	exportJobs           int
)

var exportCmd = &cobra.Command{
	Use:   "export <destination>",
	Short: "Encrypts the profile's secret files into a destination tree",
	Long: `Export resolves the export rules for the active profile, encrypts
every declared file with a passphrase, and writes the ciphertexts into
the destination tree alongside sha256sums.txt manifests.

Files whose plaintext already matches the existing export are skipped.
The run always closes with a full integrity pass over the destination.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		destination := args[0]
		Logger.Infof("Starting export command")

		passphrase, err := utils.ReadPassphraseConfirmed("Passphrase: ", "Confirm passphrase: ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}

		spinner, cleanup := startSpinner("Exporting secret files...", verbose)
		defer cleanup()

		result, err := workflows.Export(cmd.Context(), workflows.ExportOptions{
			Destination:    destination,
			Profile:        profile,
			Passphrase:     passphrase,
			FailFast:       exportFailFast,
			Jobs:           exportJobs,
			CleanOnFailure: exportCleanOnFailure,
			Logger:         Logger,
		})
		if err != nil {
			finalMessage := ui.Error.Sprint("✗") + " Export failed\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			spinner.FinalMSG = finalMessage
			return fmt.Errorf("export failed: %w", err)
		}

		if result.OK() {
			finalMessage := ui.Success.Sprint("✓") + " Exported " +
				ui.Highlight.Sprint(strconv.Itoa(result.Completed)) + " files to " +
				ui.Path.Sprint(destination) + " " +
				ui.Muted.Sprintf("%d already current, %d verified", result.Skipped, result.Verified)
			spinner.FinalMSG = finalMessage
			return nil
		}

		finalMessage := ui.Error.Sprint("✗") + " Export completed with failures\n" +
			failureLines(result.Failures)
		for _, path := range result.VerifyFailed {
			finalMessage += ui.Error.Sprint("  ✗ ") + ui.Path.Sprint(path) + ": checksum mismatch after export\n"
		}
		for _, p := range result.VerifyProblems {
			finalMessage += ui.Error.Sprint("  ✗ ") + ui.Path.Sprint(p.ManifestPath) + ": " + p.Err.Error() + "\n"
		}
		finalMessage += ui.Info.Sprint("→") + " Re-run with " + ui.Flag.Sprint("--verbose") + " for per-operation detail"
		spinner.FinalMSG = finalMessage
		return fmt.Errorf("export finished with %d failed operations", len(result.Failures)+len(result.VerifyFailed)+len(result.VerifyProblems))
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportFailFast, "fail-fast", false, "stop scheduling operations after the first failure")
	exportCmd.Flags().BoolVar(&exportCleanOnFailure, "clean-on-failure", false, "remove this run's files from directories where an operation failed")
	exportCmd.Flags().IntVar(&exportJobs, "jobs", 1, "number of operations to run concurrently")
}

// resetExportCommandState resets the export command's flags for testing.
func resetExportCommandState() {
	exportFailFast = false
	exportCleanOnFailure = false
	exportJobs = 1
}
