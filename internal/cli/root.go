package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgecli/forge/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge: backend project scaffolder",
	Long: `forge scaffolds backend project skeletons from an interactive
configuration.

It works in two stages: "forge new" writes a minimal bootstrap skeleton
whose npm postinstall hook hands control back to forge, which then
collects the remaining configuration, generates the real project, and
installs its dependencies.`,
	Version: version.GetVersion(),
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("forge %s\n", version.GetVersion()))
}
