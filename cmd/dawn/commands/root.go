// Package commands provides the CLI commands for the dawn tool.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dawnlang/dawn/dawnerr"
)

var debug bool

// logger is configured from --debug before any command runs.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "dawn",
	Short: "DawnLang compiler",
	Long: `dawn compiles DawnLang programs to native executables through C.

Usage:
  dawn build main.dawn app        Compile main.dawn into ./app
  dawn run main.dawn app          Compile and run ./app
  dawn transpile main.dawn        Print the generated C
  dawn clean                      Remove build workspaces
  dawn version                    Print version

The single-dash forms of earlier releases are still accepted:
  dawn -b main.dawn app           Same as dawn build
  dawn -br main.dawn app          Same as dawn run
  dawn -d ...                     Same as --debug`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(os.Stderr, debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Print debug logs and detailed errors")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger creates a text logger without timestamps or levels.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// legacyFlags maps the single-dash switches of earlier releases to commands and flags.
var legacyFlags = map[string]string{
	"-b":  "build",
	"-br": "run",
	"-d":  "--debug",
}

// NormalizeArgs rewrites the legacy single-dash forms into cobra commands.
// Arguments after "--" belong to the executed program and are left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if repl, ok := legacyFlags[arg]; ok {
			arg = repl
		}
		out = append(out, arg)
	}
	return out
}

// exitCodeError carries the exit code of a program started by dawn run.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("program exited with status %d", e.code)
}

// Execute runs the root command with args and returns the process exit code.
func Execute(args []string) int {
	rootCmd.SetArgs(NormalizeArgs(args))
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	return report(os.Stderr, err, debug)
}

// report prints err in the user-facing form and returns the exit code.
func report(w io.Writer, err error, detailed bool) int {
	var exit *exitCodeError
	if errors.As(err, &exit) {
		return exit.code
	}

	var notFound *dawnerr.SourceNotFoundError
	var phase *dawnerr.PhaseError
	switch {
	case errors.As(err, &notFound):
		fmt.Fprintln(w, "ERROR: File cannot be found")
	case errors.As(err, &phase):
		fmt.Fprintf(w, "ERROR CODE: %s\n", phase.Code())
	default:
		fmt.Fprintln(w, "Error:", err)
		return 1
	}
	if detailed {
		fmt.Fprintln(w, err)
	}
	return 1
}
