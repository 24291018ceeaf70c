package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/forgecli/forge/internal/manifest"
)

// Stage is the bootstrap state of a target directory. The state is never
// held across process invocations; DetectStage re-derives it from file
// presence alone.
type Stage int

const (
	// StageInit means the directory does not exist yet (or holds no
	// manifest); stage 1 has not run.
	StageInit Stage = iota
	// Stage1Written means the bootstrap manifest and the transient
	// stage-2 script are in place, waiting for the package manager.
	Stage1Written
	// Stage2Running means stage 2 is executing in this process.
	Stage2Running
	// Stage2Complete means only the final project tree remains.
	Stage2Complete
	// StageFailed means the on-disk state is inconsistent (for example
	// the hook is registered but the stage-2 script was deleted).
	StageFailed
)

// String returns the state name.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case Stage1Written:
		return "stage1-written"
	case Stage2Running:
		return "stage2-running"
	case Stage2Complete:
		return "stage2-complete"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// DetectStage classifies a target directory by its on-disk artifacts.
func DetectStage(dir string) (Stage, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return StageInit, nil
		}
		return StageFailed, err
	}

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return StageInit, nil
		}
		return StageFailed, err
	}

	m, err := manifest.Decode(data)
	if err != nil {
		return StageFailed, err
	}

	shimExists := false
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(manifest.ShimPath))); err == nil {
		shimExists = true
	}

	switch {
	case m.HasHook() && shimExists:
		return Stage1Written, nil
	case m.HasHook() && !shimExists:
		// Hook registered but the script it points at is gone.
		return StageFailed, nil
	default:
		return Stage2Complete, nil
	}
}

// verifyStage2Artifacts confirms the transient stage-1 artifacts are
// present before stage 2 starts generating.
func verifyStage2Artifacts(dir string) error {
	stage, err := DetectStage(dir)
	if err != nil {
		return &StateError{Dir: dir, Reason: err.Error()}
	}
	if stage != Stage1Written {
		return &StateError{
			Dir:    dir,
			Reason: "expected stage-1 artifacts (bootstrap manifest with " + manifest.HookKey + " hook and " + manifest.ShimPath + "), found state " + stage.String(),
		}
	}
	return nil
}
