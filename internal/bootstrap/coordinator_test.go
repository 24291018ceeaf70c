package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forgecli/forge/internal/config"
	"github.com/forgecli/forge/internal/manifest"
)

// fakeRunner records commands instead of spawning processes.
type fakeRunner struct {
	commands [][]string
	fail     string // command name that should fail, if any
}

func (r *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.commands = append(r.commands, append([]string{name}, args...))
	if r.fail != "" && name == r.fail {
		return &InstallError{Command: name, Err: errors.New("exit status 1")}
	}
	return nil
}

func stage1(t *testing.T, parent string, opts Stage1Options) *Stage1Result {
	t.Helper()
	opts.ParentDir = parent
	res, err := NewCoordinator(nil, &fakeRunner{}, nil).RunStage1(context.Background(), opts)
	if err != nil {
		t.Fatalf("RunStage1() unexpected error: %v", err)
	}
	return res
}

func TestRunStage1WritesSkeleton(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	res := stage1(t, parent, Stage1Options{ProjectName: "demo", Framework: config.FrameworkExpress})

	if res.TargetDir != filepath.Join(parent, "demo") {
		t.Errorf("TargetDir = %q", res.TargetDir)
	}

	data, err := os.ReadFile(filepath.Join(res.TargetDir, "package.json"))
	if err != nil {
		t.Fatalf("bootstrap manifest missing: %v", err)
	}
	m, err := manifest.Decode(data)
	if err != nil {
		t.Fatalf("bootstrap manifest does not parse: %v", err)
	}
	if !m.HasHook() {
		t.Error("bootstrap manifest missing the lifecycle hook")
	}

	shimPath := filepath.Join(res.TargetDir, filepath.FromSlash(manifest.ShimPath))
	shim, err := os.ReadFile(shimPath)
	if err != nil {
		t.Fatalf("stage-2 shim missing: %v", err)
	}
	if strings.Contains(string(shim), "__FORGE_BIN__") {
		t.Error("shim still carries the unexpanded binary placeholder")
	}
	info, err := os.Stat(shimPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("shim mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestRunStage1RefusesExistingDirectory(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	if err := os.Mkdir(filepath.Join(parent, "demo"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewCoordinator(nil, &fakeRunner{}, nil).RunStage1(context.Background(), Stage1Options{
		ProjectName: "demo",
		Framework:   config.FrameworkExpress,
		ParentDir:   parent,
	})
	if !errors.Is(err, config.ErrProjectExists) {
		t.Errorf("error = %v, want ErrProjectExists", err)
	}
}

func TestRunStage1RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	_, err := NewCoordinator(nil, &fakeRunner{}, nil).RunStage1(context.Background(), Stage1Options{
		ProjectName: "demo",
		Framework:   config.Framework("rails"), // no shim for this framework
		ParentDir:   parent,
	})
	if err == nil {
		t.Fatal("RunStage1() succeeded for a framework without a shim")
	}

	if _, statErr := os.Stat(filepath.Join(parent, "demo")); !os.IsNotExist(statErr) {
		t.Error("failed stage 1 left its target directory behind")
	}
}

func TestStashedAnswers(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	ans := &config.Answers{ProjectName: "demo", Framework: "flask", Database: "none"}
	res := stage1(t, parent, Stage1Options{ProjectName: "demo", Framework: config.FrameworkFlask, Answers: ans})

	got, err := StashedAnswers(res.TargetDir)
	if err != nil {
		t.Fatalf("StashedAnswers() unexpected error: %v", err)
	}
	if got == nil || got.Framework != "flask" {
		t.Errorf("stash = %+v, want flask answers", got)
	}

	// A skeleton written without answers has no stash.
	other := stage1(t, parent, Stage1Options{ProjectName: "plain", Framework: config.FrameworkExpress})
	got, err = StashedAnswers(other.TargetDir)
	if err != nil {
		t.Fatalf("StashedAnswers() unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("stash = %+v, want nil", got)
	}
}

func TestRunStage2(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	cfg, err := config.Build(config.Answers{
		ProjectName: "demo",
		Framework:   "express",
		Database:    "none",
		Features:    []string{"cors"},
		Port:        "3000",
	})
	if err != nil {
		t.Fatal(err)
	}

	res := stage1(t, parent, Stage1Options{ProjectName: "demo", Framework: config.FrameworkExpress})
	runner := &fakeRunner{}

	out, err := NewCoordinator(nil, runner, nil).RunStage2(context.Background(), cfg, res.TargetDir)
	if err != nil {
		t.Fatalf("RunStage2() unexpected error: %v", err)
	}
	if len(out.Files) == 0 {
		t.Fatal("stage 2 wrote no files")
	}

	// The transient directory is gone and the manifest carries no hook.
	if _, statErr := os.Stat(filepath.Join(res.TargetDir, manifest.BootstrapDir)); !os.IsNotExist(statErr) {
		t.Error("transient bootstrap directory survived stage 2")
	}
	data, err := os.ReadFile(filepath.Join(res.TargetDir, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := manifest.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if m.HasHook() {
		t.Error("final manifest still carries the lifecycle hook")
	}
	if _, ok := m.Dependencies["express"]; !ok {
		t.Error("final manifest missing the framework dependency")
	}

	if len(runner.commands) != 1 {
		t.Fatalf("commands = %v, want a single npm install", runner.commands)
	}
	if got := strings.Join(runner.commands[0], " "); got != "npm install" {
		t.Errorf("install command = %q, want plain npm install so dependency install scripts run", got)
	}

	stage, err := DetectStage(res.TargetDir)
	if err != nil {
		t.Fatal(err)
	}
	if stage != Stage2Complete {
		t.Errorf("stage after finalize = %v, want stage2-complete", stage)
	}
}

func TestRunStage2Flask(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	cfg, err := config.Build(config.Answers{
		ProjectName: "demo",
		Framework:   "flask",
		Database:    "none",
		Features:    []string{"venv"},
		Port:        "5000",
	})
	if err != nil {
		t.Fatal(err)
	}

	res := stage1(t, parent, Stage1Options{ProjectName: "demo", Framework: config.FrameworkFlask})
	runner := &fakeRunner{}

	if _, err := NewCoordinator(nil, runner, nil).RunStage2(context.Background(), cfg, res.TargetDir); err != nil {
		t.Fatalf("RunStage2() unexpected error: %v", err)
	}

	for _, want := range []string{"requirements.txt", "requirements-dev.txt", "app.py"} {
		if _, err := os.Stat(filepath.Join(res.TargetDir, want)); err != nil {
			t.Errorf("%s missing after stage 2: %v", want, err)
		}
	}

	if len(runner.commands) != 3 {
		t.Fatalf("commands = %v, want venv creation plus two pip installs", runner.commands)
	}
	if got := strings.Join(runner.commands[0], " "); got != "python3 -m venv .venv" {
		t.Errorf("first command = %q", got)
	}
	if !strings.HasPrefix(runner.commands[1][0], ".venv") {
		t.Errorf("pip command = %v, want venv interpreter", runner.commands[1])
	}
}

// manifestCheckRunner verifies the on-disk manifest at install time, to
// pin down the ordering that makes a plain npm install safe: the final
// hook-free manifest must already have replaced the bootstrap one.
type manifestCheckRunner struct {
	t *testing.T
}

func (r *manifestCheckRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		r.t.Fatalf("manifest missing at install time: %v", err)
	}
	m, err := manifest.Decode(data)
	if err != nil {
		r.t.Fatal(err)
	}
	if m.HasHook() {
		r.t.Error("install ran while the manifest still carried the lifecycle hook")
	}
	return nil
}

func TestRunStage2InstallsAfterManifestReplacement(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	cfg, err := config.Build(config.Answers{
		ProjectName: "demo",
		Framework:   "express",
		Database:    "sqlite",
		Port:        "3000",
	})
	if err != nil {
		t.Fatal(err)
	}

	res := stage1(t, parent, Stage1Options{ProjectName: "demo", Framework: config.FrameworkExpress})
	if _, err := NewCoordinator(nil, &manifestCheckRunner{t: t}, nil).RunStage2(context.Background(), cfg, res.TargetDir); err != nil {
		t.Fatalf("RunStage2() unexpected error: %v", err)
	}
}

func TestRunStage2RequiresStage1Artifacts(t *testing.T) {
	t.Parallel()

	cfg, err := config.Build(config.Answers{
		ProjectName: "demo",
		Framework:   "express",
		Database:    "none",
		Port:        "3000",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewCoordinator(nil, &fakeRunner{}, nil).RunStage2(context.Background(), cfg, t.TempDir())
	if !errors.Is(err, ErrBootstrapState) {
		t.Errorf("error = %v, want ErrBootstrapState", err)
	}
}

func TestRunStage2InstallFailure(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	cfg, err := config.Build(config.Answers{
		ProjectName: "demo",
		Framework:   "express",
		Database:    "none",
		Port:        "3000",
	})
	if err != nil {
		t.Fatal(err)
	}

	res := stage1(t, parent, Stage1Options{ProjectName: "demo", Framework: config.FrameworkExpress})
	runner := &fakeRunner{fail: "npm"}

	_, err = NewCoordinator(nil, runner, nil).RunStage2(context.Background(), cfg, res.TargetDir)
	if !errors.Is(err, ErrInstallFailed) {
		t.Fatalf("error = %v, want ErrInstallFailed", err)
	}

	// Partial output stays in place for inspection.
	if _, statErr := os.Stat(filepath.Join(res.TargetDir, "src", "index.js")); statErr != nil {
		t.Errorf("generated sources missing after install failure: %v", statErr)
	}
}
