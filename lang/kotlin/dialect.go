// Package kotlin holds the Kotlin node catalog and its import dialect.
package kotlin

import (
	"strings"

	"github.com/teranos/apigen/source"
)

// MaxLineLength is where parameter lists break one per line.
const MaxLineLength = 120

// Dialect imports declarations from other packages. Package is the package
// of the file being written; declarations without a module are assumed to
// share it.
type Dialect struct {
	Package string
}

func (d Dialect) Resolve(_ string, decl source.Declaration, name string) (string, *source.Import) {
	if decl.Module == "" || decl.Module == d.Package {
		return name, nil
	}
	return name, &source.Import{Module: decl.Module, Name: name}
}

func (d Dialect) WriteImports(b *source.Builder, imports []source.Import) {
	for _, imp := range imports {
		b.Append("import ", imp.Module, ".", imp.Name)
		if imp.Alias != "" {
			b.Append(" as ", imp.Alias)
		}
		b.AppendLine()
	}
	b.AppendLine()
}

// FileHeader writes the package clause and marks the import position.
func FileHeader(pkg string) source.Value {
	return source.Callback(func(b *source.Builder) {
		if pkg != "" {
			b.AppendLine("package ", pkg)
			b.AppendLine()
		}
		b.ImportsHere()
	})
}

var keywords = map[string]bool{
	"as": true, "break": true, "class": true, "continue": true, "do": true, "else": true,
	"false": true, "for": true, "fun": true, "if": true, "in": true, "interface": true,
	"is": true, "null": true, "object": true, "package": true, "return": true, "super": true,
	"this": true, "throw": true, "true": true, "try": true, "typealias": true, "typeof": true,
	"val": true, "var": true, "when": true, "while": true,
}

// Name escapes keywords and names that are not plain identifiers with
// backticks.
func Name(s string) string {
	if keywords[s] || strings.ContainsAny(s, " -.$/") {
		return "`" + s + "`"
	}
	return s
}

// StringLiteral quotes s as a Kotlin string.
func StringLiteral(s string) source.Value {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "\n", `\n`)
	return source.Literal(`"` + r.Replace(s) + `"`)
}

// Nullable appends ? to a type.
func Nullable(typ any) source.Value {
	return source.Concat(typ, "?")
}

// Generic returns Name<A, B>.
func Generic(name any, args ...any) source.Value {
	return source.Concat(name, "<", source.Join(", ", args...), ">")
}
