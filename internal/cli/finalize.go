package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/forgecli/forge/internal/bootstrap"
	"github.com/forgecli/forge/internal/cli/wizard"
	"github.com/forgecli/forge/internal/config"
	"github.com/forgecli/forge/internal/manifest"
	"github.com/forgecli/forge/internal/ui"
)

// finalizeCmd is the stage-2 entry point. It is not meant to be run by
// hand: the stage-1 shim invokes it through npm's postinstall hook from
// inside the target directory.
var finalizeCmd = &cobra.Command{
	Use:    "finalize",
	Short:  "Generate the final project inside a bootstrap skeleton",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runFinalize,
}

func init() {
	rootCmd.AddCommand(finalizeCmd)

	finalizeCmd.Flags().String("framework", "", "Backend framework selected at stage 1")
}

// runFinalize collects the framework-specific remainder of the
// configuration and runs stage 2 in the current directory.
func runFinalize(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ans, err := resolveStage2Answers(cmd, dir)
	if err != nil {
		return err
	}

	cfg, err := config.Build(*ans)
	if err != nil {
		return err
	}
	cfg.TargetDir = dir

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd())
	spin := ui.NewSpinner("Generating project files...", interactive, out)

	runner := &statusRunner{inner: bootstrap.NewRunner(nil), spin: spin}
	coordinator := bootstrap.NewCoordinator(nil, runner, nil)
	result, err := coordinator.RunStage2(ctx, cfg, dir)
	spin.Stop()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, renderSuccessCard(
		fmt.Sprintf("Project %s is ready", cfg.ProjectName),
		renderKeyValueLines([]kvPair{
			{"Framework", string(cfg.Framework)},
			{"Database", string(cfg.Database)},
			{"Port", fmt.Sprintf("%d", cfg.Port)},
			{"Files", fmt.Sprintf("%d created", len(result.Files))},
		}),
		cliMuted.Render("Start it with: npm start"),
	))
	return nil
}

// resolveStage2Answers layers the stage-2 answer sources: the stage-1
// stash (preset / non-interactive runs) wins over prompting; the project
// name always comes from the bootstrap manifest on disk.
func resolveStage2Answers(cmd *cobra.Command, dir string) (*config.Answers, error) {
	projectName, err := bootstrapProjectName(dir)
	if err != nil {
		return nil, err
	}

	fw := getStringFlag(cmd, "framework")

	stashed, err := bootstrap.StashedAnswers(dir)
	if err != nil {
		return nil, err
	}
	if stashed != nil {
		stashed.ProjectName = projectName
		if fw != "" {
			stashed.Framework = fw
		}
		return stashed, nil
	}

	framework := config.Framework(fw)
	if !framework.IsValid() {
		return nil, &config.ValidationError{
			Field:   "framework",
			Message: "must be one of: express, flask",
			Value:   fw,
			Wrapped: config.ErrUnknownFramework,
		}
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, errors.New("finalize: no terminal for prompting and no stashed answers; re-run `forge new` with --preset")
	}

	result, err := wizard.Run(wizard.Stage2Questions(framework))
	if err != nil {
		if errors.Is(err, wizard.ErrCancelled) {
			return nil, fmt.Errorf("finalize: %w", wizard.ErrCancelled)
		}
		return nil, err
	}

	result.Merge(&config.Answers{
		ProjectName: projectName,
		Framework:   string(framework),
	})
	return result.Answers(), nil
}

// statusRunner narrates each package-manager command through the spinner
// before delegating to the real runner.
type statusRunner struct {
	inner bootstrap.Runner
	spin  ui.Spinner
}

func (r *statusRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.spin.SetTitle("Installing dependencies (" + name + " " + strings.Join(args, " ") + ")...")
	return r.inner.Run(ctx, dir, name, args...)
}

// bootstrapProjectName reads the project name chosen at stage 1 from the
// bootstrap manifest.
func bootstrapProjectName(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", fmt.Errorf("read bootstrap manifest: %w", err)
	}
	m, err := manifest.Decode(data)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}
