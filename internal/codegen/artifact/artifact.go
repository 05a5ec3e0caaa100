// Package artifact writes generated files under one of two policies:
// machine-owned files are always rewritten, hand-editable files are created
// once and never touched again.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Policy selects how an artifact is written
type Policy int

const (
	// AlwaysOverwrite replaces the file on every run
	AlwaysOverwrite Policy = iota
	// CreateIfAbsent writes the file only when it does not exist yet
	CreateIfAbsent
)

func (p Policy) String() string {
	if p == CreateIfAbsent {
		return "create-if-absent"
	}
	return "always-overwrite"
}

// Artifact is one output file. Name is relative to the materializer's directory.
// Render is only called when the file is actually written.
type Artifact struct {
	Name   string
	Policy Policy
	Render func() string
}

// Outcome reports what Materialize did
type Outcome int

const (
	Written Outcome = iota
	Skipped
)

func (o Outcome) String() string {
	if o == Skipped {
		return "skipped"
	}
	return "written"
}

// FileSystem is the subset of file operations the materializer needs
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// OSFileSystem implements FileSystem on the local disk
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// PathError records which operation failed on which path
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Materializer writes artifacts below a single output directory
type Materializer struct {
	fs     FileSystem
	dir    string
	logger zerolog.Logger
}

// NewMaterializer creates a materializer rooted at dir
func NewMaterializer(fsys FileSystem, dir string, logger zerolog.Logger) *Materializer {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Materializer{fs: fsys, dir: dir, logger: logger}
}

// Dir returns the output directory
func (m *Materializer) Dir() string {
	return m.dir
}

// Path returns the absolute location of an artifact name
func (m *Materializer) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// EnsureDir creates the output directory if needed
func (m *Materializer) EnsureDir() error {
	if err := m.fs.MkdirAll(m.dir, 0o755); err != nil {
		return &PathError{Op: "create directory", Path: m.dir, Err: err}
	}
	return nil
}

// Exists reports whether the artifact's file is present. Errors other than
// "not exist" are returned so permission problems are not mistaken for absence.
func (m *Materializer) Exists(name string) (bool, error) {
	path := m.Path(name)
	_, err := m.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &PathError{Op: "stat", Path: path, Err: err}
	}
}

// Materialize writes a according to its policy
func (m *Materializer) Materialize(a Artifact) (Outcome, error) {
	path := m.Path(a.Name)

	if a.Policy == CreateIfAbsent {
		exists, err := m.Exists(a.Name)
		if err != nil {
			return Skipped, err
		}
		if exists {
			m.logger.Debug().Str("path", path).Msg("file exists, skipping")
			return Skipped, nil
		}
		if err := m.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Skipped, &PathError{Op: "create directory", Path: filepath.Dir(path), Err: err}
		}
	}

	var content string
	if a.Render != nil {
		content = a.Render()
	}

	changed := true
	if a.Policy == AlwaysOverwrite {
		prev, err := m.Read(a.Name)
		if err != nil {
			return Skipped, err
		}
		changed = prev == nil || string(prev) != content
	}

	if err := m.fs.WriteFile(path, []byte(content), 0o644); err != nil {
		return Skipped, &PathError{Op: "write", Path: path, Err: err}
	}

	m.logger.Info().
		Str("path", path).
		Str("policy", a.Policy.String()).
		Bool("changed", changed).
		Msg("write file")
	return Written, nil
}

// Read returns an artifact's current content, or nil if the file does not exist
func (m *Materializer) Read(name string) ([]byte, error) {
	path := m.Path(name)
	data, err := m.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &PathError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}
