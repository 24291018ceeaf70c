// Package project materializes generated file batches onto the
// filesystem. Writes are not atomic across files, but re-running the
// same batch against the same directory is byte-identical: content is a
// pure function of the configuration, with no timestamps or randomness.
package project

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgecli/forge/internal/scaffold"
)

// WriteError reports a failed directory creation or file write.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer writes FileSpec batches into a target directory.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer. A nil logger discards output.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{logger: logger}
}

// WriteBatch writes every FileSpec under root, creating parent
// directories as needed. The first failure aborts and surfaces a
// *WriteError; files already written stay in place for the caller to
// clean up or report.
func (w *Writer) WriteBatch(ctx context.Context, root string, specs []scaffold.FileSpec) ([]string, error) {
	root = filepath.Clean(root)

	written := make([]string, 0, len(specs))
	for _, spec := range specs {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		if err := validateRelPath(spec.RelPath); err != nil {
			return written, err
		}

		dest := filepath.Join(root, filepath.FromSlash(spec.RelPath))
		if dir := filepath.Dir(dest); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, &WriteError{Path: dir, Err: err}
			}
		}

		mode := spec.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(dest, spec.Content, mode); err != nil {
			return written, &WriteError{Path: dest, Err: err}
		}

		w.logger.Debug("wrote file", "path", spec.RelPath, "stage", int(spec.Stage))
		written = append(written, spec.RelPath)
	}
	return written, nil
}

// validateRelPath rejects absolute paths and parent-directory escapes so
// a batch can never write outside the target directory.
func validateRelPath(rel string) error {
	if rel == "" || strings.HasPrefix(rel, "/") {
		return &WriteError{Path: rel, Err: fs.ErrInvalid}
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return &WriteError{Path: rel, Err: fs.ErrInvalid}
	}
	return nil
}
