package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dawnlang/dawn/internal/build"
	"dawnlang/dawn/internal/fetch"
)

var cleanCache bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean build workspaces and caches",
	Long: `Clean removes build workspaces left behind by interrupted builds.

Options:
  --cache   Also remove fetched remote includes

Examples:
  dawn clean              # Clean all workspaces
  dawn clean --cache      # Clean workspaces and the include cache`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := build.DefaultConfig()

		fmt.Fprintln(cmd.OutOrStdout(), "Cleaning all build workspaces...")
		if err := build.CleanAllWorkspaces(config); err != nil {
			return err
		}

		if cleanCache {
			fmt.Fprintln(cmd.OutOrStdout(), "Cleaning include cache...")
			if err := fetch.NewCache(&fetch.Config{CacheDir: config.CacheDir}).Clean(); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Done.")
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanCache, "cache", false, "Also remove the remote include cache")
}
