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
	importFailFast bool
	importJobs     int
)

var importCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Decrypts an export tree back to the profile's source paths",
	Long: `Import resolves the import rules for the active profile, checks every
ciphertext against its sha256sums.txt manifest, decrypts it, and places
the plaintext at the declared source path with its recorded ownership
and mode.

A file is only written after its decrypted content passes the embedded
checksum. Symlink conflicts are reported but do not fail the run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		Logger.Infof("Starting import command")

		passphrase, err := utils.ReadPassphrase("Passphrase: ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read passphrase: %v", err)
		}

		spinner, cleanup := startSpinner("Importing secret files...", verbose)
		defer cleanup()

		result, err := workflows.Import(cmd.Context(), workflows.ImportOptions{
			Source:     source,
			Profile:    profile,
			Passphrase: passphrase,
			FailFast:   importFailFast,
			Jobs:       importJobs,
			Logger:     Logger,
		})
		if err != nil {
			finalMessage := ui.Error.Sprint("✗") + " Import failed\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			spinner.FinalMSG = finalMessage
			return fmt.Errorf("import failed: %w", err)
		}

		if result.OK() {
			finalMessage := ui.Success.Sprint("✓") + " Imported " +
				ui.Highlight.Sprint(strconv.Itoa(result.Completed)) + " files from " +
				ui.Path.Sprint(source)
			if len(result.LinkFailures) > 0 {
				finalMessage += "\n" + ui.Warning.Sprint("⚠") + " Some symlinks could not be placed:\n" +
					failureLines(result.LinkFailures)
			}
			spinner.FinalMSG = finalMessage
			return nil
		}

		finalMessage := ui.Error.Sprint("✗") + " Import completed with failures\n" +
			failureLines(result.Failures)
		spinner.FinalMSG = finalMessage
		return fmt.Errorf("import finished with %d failed operations", len(result.Failures))
	},
}

func init() {
	importCmd.Flags().BoolVar(&importFailFast, "fail-fast", false, "stop scheduling operations after the first failure")
	importCmd.Flags().IntVar(&importJobs, "jobs", 1, "number of operations to run concurrently")
}

// resetImportCommandState resets the import command's flags for testing.
func resetImportCommandState() {
	importFailFast = false
	importJobs = 1
}
