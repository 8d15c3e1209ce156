// Package emit holds what every target shares: writing a finished file set
// and describing it in the result.
package emit

import (
	"sort"
	"time"

	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/logger"
	"github.com/teranos/apigen/source"
)

// Header is the first line of generated files in languages with // comments.
const Header = "// Generated by apigen. Do not edit."

// Symbols maps file paths to the symbols declared in them.
type Symbols map[string][]string

// Add records symbol as declared in path.
func (s Symbols) Add(path, symbol string) {
	s[path] = append(s[path], symbol)
}

// Files finalizes set, writes its files into the output directory and
// returns the fragment describing them:
//
//	files:
//	  <path>: {provider, language, symbols}
func Files(pc *codegen.Context, provider, language string, set *source.FileSet, symbols Symbols) (codegen.Output, error) {
	start := time.Now()
	files, err := set.Finalize()
	if err != nil {
		return nil, err
	}
	if err := pc.WriteFiles(files); err != nil {
		return nil, err
	}

	entries := make(map[string]any, len(files))
	for _, f := range files {
		syms := append([]string(nil), symbols[f.Path]...)
		sort.Strings(syms)
		entries[f.Path] = map[string]any{
			"provider": provider,
			"language": language,
			"symbols":  syms,
		}
		pc.Logger.Debugw("Wrote file", logger.FieldFile, f.Path, logger.FieldSize, len(f.Content))
	}
	pc.Logger.Infow("Files written",
		logger.FieldLanguage, language,
		logger.FieldCount, len(files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return codegen.Output{"files": entries}, nil
}
