// Package manifest derives the dependency manifests of generated
// projects: the transient stage-1 package.json carrying the
// install-lifecycle hook, the final package.json, and (for Flask
// projects) the pip requirements files. Manifests are immutable values;
// stage 2 overwrites the stage-1 file with a freshly built one instead
// of mutating it.
package manifest

import (
	"encoding/json"
	"fmt"
)

// Lifecycle hook wiring for the two-stage bootstrap. npm runs the
// postinstall script automatically right after dependency installation,
// which is what hands control to stage 2.
const (
	// HookKey is npm's conventional install-lifecycle script key.
	HookKey = "postinstall"

	// BootstrapDir is the transient directory holding stage-2 artifacts
	// inside the target project.
	BootstrapDir = ".forge"

	// ShimPath is the stage-2 generator script the hook invokes.
	ShimPath = BootstrapDir + "/finalize.js"
)

// PackageJSON models an npm project manifest. Field order matches npm
// convention; map keys marshal sorted, so encoding is deterministic.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Private         bool              `json:"private,omitempty"`
	Main            string            `json:"main,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Encode serializes the manifest with npm's two-space indentation and a
// trailing newline.
func (m *PackageJSON) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode package.json: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a package.json document.
func Decode(data []byte) (*PackageJSON, error) {
	var m PackageJSON
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode package.json: %w", err)
	}
	return &m, nil
}

// HasHook reports whether the manifest still carries the
// install-lifecycle hook of stage 1.
func (m *PackageJSON) HasHook() bool {
	_, ok := m.Scripts[HookKey]
	return ok
}
