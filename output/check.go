package output

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/apigen/errors"
)

// DiffKind says how a file differs.
type DiffKind string

const (
	DiffChanged DiffKind = "changed"
	DiffMissing DiffKind = "missing" // generated but absent from the existing tree
	DiffExtra   DiffKind = "extra"   // present in the existing tree only
)

// Difference is one differing file.
type Difference struct {
	Path string
	Kind DiffKind
}

// CheckResult holds the result of an up-to-date check.
type CheckResult struct {
	UpToDate    bool
	Differences []Difference
}

// MetadataPrefixes are line prefixes ignored by comparisons. Generated
// headers carry them and they change on every run.
var MetadataPrefixes = []string{
	"// Source last modified:",
	"// Source version:",
	"// Generated at:",
}

// CompareDirectories compares a freshly generated tree with the existing
// output directory.
func CompareDirectories(generated, existing afero.Fs, generatedDir, existingDir string) (*CheckResult, error) {
	genFiles, err := listFiles(generated, generatedDir)
	if err != nil {
		return nil, err
	}
	oldFiles, err := listFiles(existing, existingDir)
	if err != nil {
		return nil, err
	}

	old := make(map[string]bool, len(oldFiles))
	for _, f := range oldFiles {
		old[f] = true
	}

	var diffs []Difference
	for _, f := range genFiles {
		if !old[f] {
			diffs = append(diffs, Difference{Path: f, Kind: DiffMissing})
			continue
		}
		delete(old, f)
		different, err := filesAreDifferent(generated, filepath.Join(generatedDir, f), existing, filepath.Join(existingDir, f))
		if err != nil {
			return nil, err
		}
		if different {
			diffs = append(diffs, Difference{Path: f, Kind: DiffChanged})
		}
	}
	for _, f := range oldFiles {
		if old[f] {
			diffs = append(diffs, Difference{Path: f, Kind: DiffExtra})
		}
	}

	return &CheckResult{UpToDate: len(diffs) == 0, Differences: diffs}, nil
}

// filesAreDifferent compares two files, ignoring metadata lines.
func filesAreDifferent(fs1 afero.Fs, file1 string, fs2 afero.Fs, file2 string) (bool, error) {
	content1, err := afero.ReadFile(fs1, file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := afero.ReadFile(fs2, file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}
	if bytes.Equal(content1, content2) {
		return false, nil
	}
	lines1, ok1 := filterMetadataLines(content1)
	lines2, ok2 := filterMetadataLines(content2)
	if !ok1 || !ok2 {
		return true, nil
	}
	return lines1 != lines2, nil
}

// filterMetadataLines removes metadata comment lines from content. It
// reports false if the scanner failed, e.g. on overlong lines.
func filterMetadataLines(content []byte) (string, bool) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if isMetadataLine(strings.TrimSpace(line)) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	if scanner.Err() != nil {
		return "", false
	}
	return result.String(), true
}

func isMetadataLine(trimmed string) bool {
	for _, p := range MetadataPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}
