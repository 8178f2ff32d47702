package cmd

import (
	logger "github.com/secstash/secstash/internal/logging"
	"github.com/secstash/secstash/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	profile string
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "secstash",
		Short: "Export and import secret files to an encrypted backup",
		Long: `Secstash exports secret files into a passphrase-encrypted backup tree
and imports them back, verifying checksums at every stage.

Rules in secstash.toml declare which files belong to which machine
profile; the reserved profile "shared" applies everywhere. Exported
files are standard age ciphertexts accompanied by sha256sums.txt
manifests, so a backup stays verifiable (and recoverable) with stock
tools.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			if profile == "" {
				detected, err := utils.DefaultProfile()
				if err != nil {
					return Logger.ErrorfAndReturn("failed to detect machine profile: %v", err)
				}
				profile = detected
			}
			Logger.Debugf("Active profile: %s", profile)
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile whose rules apply (default: hostname)")

	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(verifyExportCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(logCmd)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	profile = ""
	resetExportCommandState()
	resetImportCommandState()
	resetLogCommandState()
	for _, c := range []*cobra.Command{RootCmd, exportCmd, verifyExportCmd, importCmd, logCmd} {
		c.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
