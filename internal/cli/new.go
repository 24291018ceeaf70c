package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/forgecli/forge/internal/bootstrap"
	"github.com/forgecli/forge/internal/cli/wizard"
	"github.com/forgecli/forge/internal/config"
	"github.com/forgecli/forge/pkg/version"
)

var newCmd = &cobra.Command{
	Use:   "new [project-name]",
	Short: "Write the bootstrap skeleton of a new backend project",
	Long: `Write the bootstrap skeleton of a new backend project.

Stage 1 creates the project directory with a minimal package.json and a
transient stage-2 script. Running "npm install" inside the directory
triggers the script, which collects the remaining configuration and
generates the real project.

Examples:
  forge new my-api                    Prompt for the framework interactively
  forge new my-api --framework flask  Skip the framework prompt
  forge new --preset answers.yaml     Scaffold without prompting (stage 2
                                      reuses the preset answers too)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().String("framework", "", "Backend framework: express or flask")
	newCmd.Flags().String("preset", "", "YAML answers file for non-interactive scaffolding")
	newCmd.Flags().Bool("non-interactive", false, "Never prompt; answer from flags and presets, defaulting optional fields")
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// layerStage1Answers stacks the stage-1 answer sources: the positional
// argument and the --framework flag override preset values.
func layerStage1Answers(preset *config.Answers, positional, frameworkFlag string) *config.Answers {
	ans := &config.Answers{}
	if preset != nil {
		copied := *preset
		ans = &copied
	}
	if positional != "" {
		ans.ProjectName = positional
	}
	if frameworkFlag != "" {
		ans.Framework = frameworkFlag
	}
	return ans
}

// runNew collects the minimal stage-1 configuration and writes the
// bootstrap skeleton.
func runNew(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var preset *config.Answers
	if presetPath := getStringFlag(cmd, "preset"); presetPath != "" {
		loaded, err := config.LoadPreset(presetPath)
		if err != nil {
			return err
		}
		preset = loaded
	}

	positional := ""
	if len(args) > 0 {
		positional = args[0]
	}
	ans := layerStage1Answers(preset, positional, getStringFlag(cmd, "framework"))
	presetUsed := preset != nil

	nonInteractive := getBoolFlag(cmd, "non-interactive") || presetUsed
	interactive := !nonInteractive && isatty.IsTerminal(os.Stdin.Fd())

	if (ans.ProjectName == "" || ans.Framework == "") && interactive {
		_, _ = fmt.Fprintln(out, PrintBanner(version.GetVersion()))

		result, err := wizard.Run(wizard.Stage1Questions(ans.ProjectName))
		if err != nil {
			if errors.Is(err, wizard.ErrCancelled) {
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "Scaffolding cancelled.")
				return nil
			}
			return err
		}
		if ans.ProjectName == "" {
			ans.ProjectName = result.ProjectName
		}
		if ans.Framework == "" {
			ans.Framework = result.Framework
		}
	}

	// Stage 1 validates through the same path as stage 2; only the name
	// and framework matter here, the rest falls back to defaults.
	cfg, err := config.Build(config.Answers{
		ProjectName: ans.ProjectName,
		Framework:   ans.Framework,
	})
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := bootstrap.Stage1Options{
		ProjectName: cfg.ProjectName,
		Framework:   cfg.Framework,
		ParentDir:   cwd,
	}
	// Stash the full answer set so stage 2 runs without prompting.
	if nonInteractive {
		opts.Answers = ans
	}

	coordinator := bootstrap.NewCoordinator(nil, nil, nil)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := coordinator.RunStage1(ctx, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, renderSuccessCard(
		fmt.Sprintf("Bootstrap skeleton written to %s", cfg.ProjectName),
		renderKeyValueLines([]kvPair{
			{"Framework", string(cfg.Framework)},
			{"Files", fmt.Sprintf("%d created", len(result.Files))},
		}),
		cliMuted.Render("Next: cd "+cfg.ProjectName+" && npm install"),
	))
	return nil
}
