package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// installOutputTail bounds how much subprocess output an InstallError
// carries.
const installOutputTail = 4096

// Runner executes package-manager subprocesses in a target directory.
// The install step is the only external collaborator the coordinator
// drives; it is treated as a blocking, cancellable unit whose non-zero
// exit aborts the stage.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// execRunner runs commands with os/exec, capturing combined output.
type execRunner struct {
	logger *slog.Logger
}

// NewRunner creates the default subprocess runner. A nil logger discards
// output.
func NewRunner(logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &execRunner{logger: logger}
}

// Run executes name with args inside dir. On a non-zero exit it returns
// an *InstallError carrying the tail of the combined output.
func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmdline := name + " " + strings.Join(args, " ")
	r.logger.Info("running", "cmd", cmdline, "dir", dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return &InstallError{
			Command: cmdline,
			Output:  tail(string(out), installOutputTail),
			Err:     err,
		}
	}
	return nil
}

// tail returns at most n trailing bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
