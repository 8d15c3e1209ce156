// Package output manages the generated-files directory: preparing it
// before a run, writing files, and comparing trees for up-to-date checks.
package output

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// EnsureDirectoryExists creates path and its parents if missing. Existing
// content is left alone.
func EnsureDirectoryExists(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(path, dirPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", path)
	}
	return nil
}

// ClearDirectory removes path with all its content and recreates it empty.
func ClearDirectory(fs afero.Fs, path string) error {
	if err := fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, "failed to clear directory %s", path)
	}
	return EnsureDirectoryExists(fs, path)
}

// Dir is an output directory on a file system.
type Dir struct {
	fs     afero.Fs
	root   string
	logger *zap.SugaredLogger
}

// NewDir returns the directory root on fs.
func NewDir(fs afero.Fs, root string) *Dir {
	return &Dir{fs: fs, root: filepath.Clean(root), logger: logger.ComponentLogger("output")}
}

// Fs returns the underlying file system.
func (d *Dir) Fs() afero.Fs { return d.fs }

// Root returns the directory path.
func (d *Dir) Root() string { return d.root }

// Prepare clears or ensures the directory.
func (d *Dir) Prepare(clear bool) error {
	if clear {
		d.logger.Debugw("Clearing output directory", logger.FieldOutputDir, d.root)
		return ClearDirectory(d.fs, d.root)
	}
	d.logger.Debugw("Ensuring output directory", logger.FieldOutputDir, d.root)
	return EnsureDirectoryExists(d.fs, d.root)
}

// WriteFile writes content to a path relative to the root, creating parent
// directories. Paths leaving the root are rejected.
func (d *Dir) WriteFile(rel string, content []byte) error {
	full, err := d.resolve(rel)
	if err != nil {
		return err
	}
	if err := EnsureDirectoryExists(d.fs, filepath.Dir(full)); err != nil {
		return err
	}
	if err := afero.WriteFile(d.fs, full, content, filePerm); err != nil {
		return errors.Wrapf(err, "failed to write %s", full)
	}
	d.logger.Debugw("Wrote file", logger.FieldPath, full, logger.FieldSize, len(content))
	return nil
}

// ReadFile reads a file relative to the root.
func (d *Dir) ReadFile(rel string) ([]byte, error) {
	full, err := d.resolve(rel)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(d.fs, full)
}

// Files returns the slash-separated paths of all files under the root,
// sorted.
func (d *Dir) Files() ([]string, error) {
	return listFiles(d.fs, d.root)
}

func (d *Dir) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Newf("path %s is outside the output directory", rel)
	}
	return filepath.Join(d.root, clean), nil
}

func listFiles(fs afero.Fs, root string) ([]string, error) {
	var files []string
	exists, err := afero.DirExists(fs, root)
	if err != nil || !exists {
		return nil, err
	}
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", root)
	}
	sort.Strings(files)
	return files, nil
}
