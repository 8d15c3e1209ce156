package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
)

const backupCount = 3

// Save writes cfg as TOML to path, rotating up to three backups
// (.back1 newest) of any file already there.
func Save(fs afero.Fs, path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(fs, path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// BackupPath returns the name of the n-th backup of path.
func BackupPath(path string, n int) string {
	return path + ".back" + strconv.Itoa(n)
}

// createBackup rotates .back2 -> .back3, .back1 -> .back2 and copies the
// current file to .back1. The oldest backup is dropped.
func createBackup(fs afero.Fs, path string) error {
	if _, err := fs.Stat(path); os.IsNotExist(err) {
		return nil
	}

	oldest := BackupPath(path, backupCount)
	if err := fs.Remove(oldest); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, oldest, logger.FieldError, err)
	}

	for n := backupCount - 1; n >= 1; n-- {
		from := BackupPath(path, n)
		if _, err := fs.Stat(from); err != nil {
			continue
		}
		if err := fs.Rename(from, BackupPath(path, n+1)); err != nil {
			return errors.Wrapf(err, "failed to rotate %s", from)
		}
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := afero.WriteFile(fs, BackupPath(path, 1), content, 0o644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// isBackupFile reports whether path is one of the rotating backups.
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	for n := 1; n <= backupCount; n++ {
		if ext == filepath.Ext(BackupPath("", n)) {
			return true
		}
	}
	return false
}
