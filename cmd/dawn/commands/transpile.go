package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dawnlang/dawn/internal/build"
)

var transpileOutput string

var transpileCmd = &cobra.Command{
	Use:   "transpile <input.dawn>",
	Short: "Translate a DawnLang program to C",
	Long: `Transpile translates a DawnLang program to C without compiling it.

Examples:
  dawn transpile main.dawn              # Output to stdout
  dawn transpile main.dawn -o main.c    # Output to file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := build.NewBuilder(nil, logger).Transpile(args[0])
		if err != nil {
			return err
		}

		if transpileOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), code)
			return nil
		}
		if err := os.WriteFile(transpileOutput, []byte(code), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", transpileOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated C code saved to %s\n", transpileOutput)
		return nil
	},
}

func init() {
	transpileCmd.Flags().StringVarP(&transpileOutput, "output", "o", "", "Path to the output .c file")
}
