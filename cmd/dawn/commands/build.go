package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dawnlang/dawn/internal/build"
)

var buildCmd = &cobra.Command{
	Use:   "build <input.dawn> <output>",
	Short: "Compile a DawnLang program",
	Long: `Build compiles a DawnLang program into a native executable.

This command:
  1. Reads the program and inlines its includes
  2. Translates it to C in a build workspace
  3. Runs the C compiler (gcc, or DAWN_CC) and moves the result to <output>

Any previous <output> is replaced. Nothing is left in the workspace afterwards.

Examples:
  dawn build main.dawn app
  dawn -b main.dawn app`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := build.NewBuilder(nil, logger).Build(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", args[1])
		return nil
	},
}
