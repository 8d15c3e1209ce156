// Package typescript holds the TypeScript node catalog and the dialect that
// turns cross-file references into ES module imports.
package typescript

import (
	"strings"

	"github.com/teranos/apigen/source"
)

// MaxLineLength is where parameter lists break one per line.
const MaxLineLength = 100

// Dialect resolves references to bare names and imports declarations from
// other files with relative module paths.
type Dialect struct{}

func (Dialect) Resolve(from string, decl source.Declaration, name string) (string, *source.Import) {
	if decl.Path == from {
		return name, nil
	}
	return name, &source.Import{Module: source.RelativePath(from, decl.Path), Name: name}
}

func (Dialect) WriteImports(b *source.Builder, imports []source.Import) {
	modules, byModule := source.GroupImports(imports)
	for _, m := range modules {
		names := make([]string, 0, len(byModule[m]))
		for _, imp := range byModule[m] {
			if imp.Alias != "" {
				names = append(names, imp.Name+" as "+imp.Alias)
				continue
			}
			names = append(names, imp.Name)
		}
		b.AppendLine("import { ", strings.Join(names, ", "), " } from '", m, "';")
	}
	b.AppendLine()
}

// StringLiteral quotes s with single quotes.
func StringLiteral(s string) source.Value {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return source.Literal("'" + r.Replace(s) + "'")
}

// PropertyName returns name, quoted when it is not a valid identifier.
func PropertyName(name string) source.Value {
	if isIdentifier(name) {
		return source.Literal(name)
	}
	return StringLiteral(name)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
