// Package display renders command results for the terminal with pterm, or
// as JSON when --json is set.
package display

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/output"
	"github.com/teranos/apigen/providers"
)

// FileRow describes one generated file.
type FileRow struct {
	Path     string   `json:"path" yaml:"path"`
	Provider string   `json:"provider" yaml:"provider"`
	Language string   `json:"language" yaml:"language"`
	Symbols  []string `json:"symbols" yaml:"symbols"`
}

// Files extracts the files section of a generation result, sorted by path.
// Entries that do not have the {provider, language, symbols} shape are
// listed with what they have.
func Files(result codegen.Output) []FileRow {
	files, _ := result["files"].(map[string]any)
	rows := make([]FileRow, 0, len(files))
	for path, v := range files {
		row := FileRow{Path: path}
		if entry, ok := v.(map[string]any); ok {
			row.Provider, _ = entry["provider"].(string)
			row.Language, _ = entry["language"].(string)
			row.Symbols = stringList(entry["symbols"])
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows
}

func stringList(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return nil
}

// RenderSummary renders the files table of a run and a closing status line.
func RenderSummary(result codegen.Output, outputDir string, elapsed time.Duration) (string, error) {
	rows := Files(result)
	if len(rows) == 0 {
		return pterm.Warning.Sprint("No files generated") + "\n", nil
	}

	data := pterm.TableData{{"File", "Target", "Language", "Symbols"}}
	for _, r := range rows {
		data = append(data, []string{r.Path, r.Provider, r.Language, strconv.Itoa(len(r.Symbols))})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(table)
	b.WriteString("\n")
	b.WriteString(pterm.Success.Sprintf("Generated %d files in %s (%s)",
		len(rows), outputDir, elapsed.Round(time.Millisecond)))
	b.WriteString("\n")
	return b.String(), nil
}

// RenderTargets renders the registered targets.
func RenderTargets(targets []providers.Target) (string, error) {
	data := pterm.TableData{{"Target", "Language", "Requires", "Description"}}
	for _, t := range targets {
		data = append(data, []string{t.Name, t.Language, strings.Join(t.Requires, ", "), t.Description})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// RenderCheck renders the outcome of an up-to-date check.
func RenderCheck(result *output.CheckResult, dir string) string {
	if result.UpToDate {
		return pterm.Success.Sprintf("%s is up to date", dir) + "\n"
	}
	var b strings.Builder
	b.WriteString(pterm.Error.Sprintf("%s is out of date", dir))
	b.WriteString("\n")
	for _, d := range result.Differences {
		fmt.Fprintf(&b, "  %-8s %s\n", d.Kind, d.Path)
	}
	return b.String()
}
