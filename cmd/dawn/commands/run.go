package commands

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"dawnlang/dawn/internal/build"
)

var runCmd = &cobra.Command{
	Use:   "run <input.dawn> <output> [-- args...]",
	Short: "Compile and run a DawnLang program",
	Long: `Run builds a DawnLang program and executes it immediately
from the current directory.

Arguments after -- are passed to the executed program, and its exit
status becomes the exit status of dawn.

Examples:
  dawn run main.dawn app
  dawn run main.dawn app -- arg1 arg2
  dawn -br main.dawn app`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]
		var programArgs []string
		if dash := cmd.ArgsLenAtDash(); dash >= 0 {
			if dash != 2 {
				return errors.New("run takes exactly <input.dawn> <output> before --")
			}
			programArgs = args[dash:]
		} else if len(args) > 2 {
			return errors.New("program arguments must follow --")
		}

		if err := build.NewBuilder(nil, logger).Build(input, output); err != nil {
			return err
		}

		bin, err := filepath.Abs(output)
		if err != nil {
			return err
		}
		execCmd := exec.Command(bin, programArgs...)
		execCmd.Stdin = os.Stdin
		execCmd.Stdout = cmd.OutOrStdout()
		execCmd.Stderr = cmd.ErrOrStderr()

		logger.Debug("running program", "path", bin, "args", programArgs)
		if err := execCmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return &exitCodeError{code: exitErr.ExitCode()}
			}
			return err
		}
		return nil
	},
}
