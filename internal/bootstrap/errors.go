// Package bootstrap orchestrates the two-stage scaffolding protocol.
// Stage 1 writes a minimal manifest whose install-lifecycle hook points
// at a transient stage-2 script; the package manager later triggers that
// script in a fresh process, which regenerates the real project and
// retires the stage-1 artifacts. No in-memory state survives between the
// stages; everything is re-derived from the target directory.
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the bootstrap protocol.
var (
	// ErrBootstrapState indicates stage 2 was invoked without the
	// expected stage-1 artifacts on disk.
	ErrBootstrapState = errors.New("bootstrap: stage-1 artifacts missing, re-run `forge new` to regenerate")

	// ErrInstallFailed indicates the dependency-installation subprocess
	// exited non-zero.
	ErrInstallFailed = errors.New("bootstrap: dependency installation failed")
)

// StateError reports a broken or missing bootstrap state in a directory.
type StateError struct {
	Dir    string
	Reason string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("bootstrap state in %s: %s", e.Dir, e.Reason)
}

// Unwrap returns the bootstrap-state sentinel.
func (e *StateError) Unwrap() error {
	return ErrBootstrapState
}

// InstallError reports a failed package-manager subprocess together with
// the tail of its combined output.
type InstallError struct {
	Command string
	Output  string
	Err     error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command %q failed: %v\n%s", e.Command, e.Err, out)
}

// Unwrap returns the install-failure sentinel.
func (e *InstallError) Unwrap() error {
	return ErrInstallFailed
}
