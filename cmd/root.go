package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"trestle/internal/config"
	"trestle/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigError indicates a configuration problem: malformed JSON,
	// a missing key or an unresolved placeholder.
	ExitCodeConfigError = 2
)

var rootDebug bool

// rootCmd represents the base command for the trestle application.
var rootCmd = &cobra.Command{
	Use:   "trestle",
	Short: "Publish JUnit test results to a test-management system",
	Long: `trestle reads JUnit-style XML test results and a JSON configuration
describing the target module hierarchy, derives a classification path for
every test case, and submits the resulting test logs to a qTest-style
test-management API.

Config values may contain {{ name }} placeholders resolved from the
properties file and from the testsuite-level properties in the results
file. The reserved {{ zz_testcase_class }} placeholder resolves per test
case to its fully-qualified classname.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if rootDebug {
			level = logging.LevelDebug
		}
		logging.Init(level, cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command.
// This is called from the main package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "trestle version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and CI use.
func getExitCode(err error) int {
	if config.IsConfigError(err) {
		return ExitCodeConfigError
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
}
