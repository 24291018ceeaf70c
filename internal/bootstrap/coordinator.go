package bootstrap

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgecli/forge/internal/config"
	"github.com/forgecli/forge/internal/manifest"
	"github.com/forgecli/forge/internal/project"
	"github.com/forgecli/forge/internal/scaffold"
)

//go:embed shims/*.js
var shimFS embed.FS

// binPlaceholder is replaced in the shim with the absolute path of the
// running binary, so the npm-spawned stage-2 process finds it without
// relying on PATH.
const binPlaceholder = "__FORGE_BIN__"

// answersFile is the optional stage-1 answers stash inside the transient
// directory. When present, stage 2 consumes it instead of re-prompting.
const answersFile = manifest.BootstrapDir + "/answers.yaml"

// Stage1Options configures the bootstrap-skeleton write.
type Stage1Options struct {
	ProjectName string
	Framework   config.Framework
	ParentDir   string // Directory the project folder is created in.

	// Answers, when non-nil, is stashed into the transient directory so
	// stage 2 runs without prompting (preset / non-interactive mode).
	Answers *config.Answers
}

// Stage1Result summarizes the written bootstrap skeleton.
type Stage1Result struct {
	TargetDir string
	Files     []string
}

// Stage2Result summarizes the finished project generation.
type Stage2Result struct {
	Files            []string
	RemovedArtifacts []string
}

// Coordinator drives both bootstrap stages. Each stage runs in its own
// process invocation; the coordinator never assumes state from the other
// stage beyond what DetectStage reads off disk.
type Coordinator struct {
	writer *project.Writer
	runner Runner
	logger *slog.Logger
}

// NewCoordinator creates a Coordinator. Nil dependencies get defaults
// (a fresh writer, the exec runner, a discarding logger).
func NewCoordinator(writer *project.Writer, runner Runner, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if writer == nil {
		writer = project.NewWriter(logger)
	}
	if runner == nil {
		runner = NewRunner(logger)
	}
	return &Coordinator{writer: writer, runner: runner, logger: logger}
}

// RunStage1 creates the target directory and writes the bootstrap
// skeleton: the stage-1 manifest with its postinstall hook and the
// framework-selected stage-2 shim. If any step after directory creation
// fails, the directory is removed again so the target is either absent
// or complete.
func (c *Coordinator) RunStage1(ctx context.Context, opts Stage1Options) (*Stage1Result, error) {
	target := filepath.Join(opts.ParentDir, opts.ProjectName)

	if err := config.CheckTargetDir(target); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("create project directory %s: %w", target, err)
	}

	result, err := c.writeStage1(ctx, target, opts)
	if err != nil {
		// Roll the partial skeleton back; stage 1 owns the directory it
		// just created.
		if rmErr := os.RemoveAll(target); rmErr != nil {
			c.logger.Warn("stage-1 rollback failed", "dir", target, "error", rmErr)
		}
		return nil, err
	}

	c.logger.Info("stage 1 written", "dir", target, "files", len(result.Files))
	return result, nil
}

func (c *Coordinator) writeStage1(ctx context.Context, target string, opts Stage1Options) (*Stage1Result, error) {
	m := manifest.BuildBootstrap(opts.ProjectName, opts.Framework)
	manifestData, err := m.Encode()
	if err != nil {
		return nil, err
	}

	shim, err := c.shimFor(opts.Framework)
	if err != nil {
		return nil, err
	}

	specs := []scaffold.FileSpec{
		{RelPath: "package.json", Content: manifestData, Mode: 0o644, Stage: scaffold.StageBootstrap},
		{RelPath: manifest.ShimPath, Content: shim, Mode: 0o755, Stage: scaffold.StageBootstrap},
	}

	if opts.Answers != nil {
		stash, err := config.EncodePreset(opts.Answers)
		if err != nil {
			return nil, err
		}
		specs = append(specs, scaffold.FileSpec{
			RelPath: answersFile,
			Content: stash,
			Mode:    0o600,
			Stage:   scaffold.StageBootstrap,
		})
	}

	files, err := c.writer.WriteBatch(ctx, target, specs)
	if err != nil {
		return nil, err
	}
	return &Stage1Result{TargetDir: target, Files: files}, nil
}

// shimFor loads the framework-selected stage-2 script and bakes the
// absolute path of the running binary into it.
func (c *Coordinator) shimFor(fw config.Framework) ([]byte, error) {
	data, err := shimFS.ReadFile("shims/" + string(fw) + ".js")
	if err != nil {
		return nil, fmt.Errorf("load stage-2 shim for %s: %w", fw, err)
	}

	bin, err := os.Executable()
	if err != nil {
		// Fall back to PATH lookup inside the shim.
		bin = "forge"
	}
	return []byte(strings.ReplaceAll(string(data), binPlaceholder, bin)), nil
}

// StashedAnswers returns the stage-1 answers stash from the transient
// directory, or nil when none was written.
func StashedAnswers(dir string) (*config.Answers, error) {
	path := filepath.Join(dir, filepath.FromSlash(answersFile))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return config.LoadPreset(path)
}

// RunStage2 regenerates the real project inside dir: it verifies the
// stage-1 artifacts, writes the full final batch (sources plus a fresh
// manifest with the hook removed), installs the real dependencies, and
// retires the transient stage-1 artifacts. Partial output is left in
// place on failure; the surfaced error names the failing path or command.
func (c *Coordinator) RunStage2(ctx context.Context, cfg *config.Config, dir string) (*Stage2Result, error) {
	if err := verifyStage2Artifacts(dir); err != nil {
		return nil, err
	}
	c.logger.Info("stage 2 running", "dir", dir, "framework", string(cfg.Framework))

	specs, err := scaffold.Generate(cfg)
	if err != nil {
		return nil, err
	}

	manifests, err := finalManifestSpecs(cfg)
	if err != nil {
		return nil, err
	}
	specs = append(specs, manifests...)

	files, err := c.writer.WriteBatch(ctx, dir, specs)
	if err != nil {
		return nil, err
	}

	if err := c.installDependencies(ctx, cfg, dir); err != nil {
		return nil, err
	}

	removed, err := c.cleanupStage1(dir)
	if err != nil {
		return nil, err
	}

	c.logger.Info("stage 2 complete", "dir", dir, "files", len(files))
	return &Stage2Result{Files: files, RemovedArtifacts: removed}, nil
}

// finalManifestSpecs builds the manifest FileSpecs of the final project.
// Writing the manifest through the same batch as the sources keeps the
// generation atomic from the writer's point of view.
func finalManifestSpecs(cfg *config.Config) ([]scaffold.FileSpec, error) {
	data, err := manifest.BuildFinal(cfg).Encode()
	if err != nil {
		return nil, err
	}
	specs := []scaffold.FileSpec{
		{RelPath: "package.json", Content: data, Mode: 0o644, Stage: scaffold.StageFinal},
	}

	if cfg.Framework == config.FrameworkFlask {
		specs = append(specs,
			scaffold.FileSpec{
				RelPath: "requirements.txt",
				Content: manifest.EncodeRequirements(manifest.BuildRequirements(cfg)),
				Mode:    0o644,
				Stage:   scaffold.StageFinal,
			},
			scaffold.FileSpec{
				RelPath: "requirements-dev.txt",
				Content: manifest.EncodeRequirements(manifest.BuildDevRequirements(cfg)),
				Mode:    0o644,
				Stage:   scaffold.StageFinal,
			},
		)
	}
	return specs, nil
}

// installDependencies runs the nested dependency-installation pass for
// the real project. A non-zero exit is fatal to the stage; there is no
// retry across the process boundary.
func (c *Coordinator) installDependencies(ctx context.Context, cfg *config.Config, dir string) error {
	if cfg.Framework == config.FrameworkExpress {
		// The final manifest is already on disk and carries no lifecycle
		// hook, so a plain install cannot re-trigger stage 2. Install
		// scripts must run: native drivers (better-sqlite3) build their
		// bindings in them.
		return c.runner.Run(ctx, dir, "npm", "install")
	}

	pip := "pip3"
	if cfg.HasFeature(config.FeatureVenv) {
		if err := c.runner.Run(ctx, dir, "python3", "-m", "venv", ".venv"); err != nil {
			return err
		}
		pip = filepath.Join(".venv", "bin", "pip")
	}
	if err := c.runner.Run(ctx, dir, pip, "install", "-r", "requirements.txt"); err != nil {
		return err
	}
	return c.runner.Run(ctx, dir, pip, "install", "-r", "requirements-dev.txt")
}

// cleanupStage1 deletes the transient stage-2-script directory. The
// stage-1 manifest was already overwritten by the final one, so after
// this only the final project tree remains.
func (c *Coordinator) cleanupStage1(dir string) (removed []string, err error) {
	transient := filepath.Join(dir, manifest.BootstrapDir)
	if _, statErr := os.Stat(transient); statErr == nil {
		if err := os.RemoveAll(transient); err != nil {
			return nil, fmt.Errorf("remove %s: %w", transient, err)
		}
		removed = append(removed, manifest.BootstrapDir)
	}
	return removed, nil
}
