// Package scaffold generates the source tree of a target project from a
// validated configuration. Every logical file has a dedicated builder
// dispatched on (framework, database, language mode), and one call to
// Generate produces the complete batch so a mixed or partial file set can
// never reach the filesystem.
package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"text/template"
)

// Stage records which bootstrap stage a generated file belongs to, so
// stage-2 cleanup can remove stage-1-only artifacts without touching
// final output.
type Stage int

const (
	// StageBootstrap marks files of the transient stage-1 skeleton.
	StageBootstrap Stage = 1
	// StageFinal marks files of the final project tree.
	StageFinal Stage = 2
)

// FileSpec is one generated file: its project-relative path, full
// content, permission bits, and owning stage.
type FileSpec struct {
	RelPath string
	Content []byte
	Mode    fs.FileMode
	Stage   Stage
}

// file builds a StageFinal FileSpec with default permissions.
func file(relPath string, content []byte) FileSpec {
	return FileSpec{RelPath: relPath, Content: content, Mode: 0o644, Stage: StageFinal}
}

// mustTemplate parses a generator template with strict missing-key mode.
// Generator templates are compile-time constants, so a parse failure is a
// programming error.
func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// render executes a generator template against the template data.
func render(tmpl *template.Template, data *templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

// templateData is the flat value set exposed to generator templates.
// Every value is baked at generation time; generated projects never
// re-derive them.
type templateData struct {
	ProjectName string
	Port        int
	APIPrefix   string

	Ext string // "js" or "ts"; empty for flask

	CORS       bool
	AutoReload bool
	Venv       bool

	Database      string
	ConnectionURI string
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	SQLitePath    string

	ConnectRetries int
	RetryDelayMS   int
}

// Fixed values baked into generated projects.
const (
	// apiPrefix is the mount point of the generated resource router.
	apiPrefix = "/api/v1"

	// connectRetries and connectRetryDelayMS bound the generated
	// data-access connection loop. Exhausting the retries exits the
	// generated process.
	connectRetries       = 5
	connectRetryDelayMS  = 2000
	defaultSQLitePath    = "data/app.db"
	secretKeyPlaceholder = "change-me"
)
