// Package golang holds the Go node catalog. Finished files are formatted
// with golang.org/x/tools/imports.
package golang

import (
	"path"
	"strconv"

	"golang.org/x/tools/imports"

	"github.com/teranos/apigen/source"
)

// Dialect qualifies declarations from other packages as pkg.Name and
// imports their package. ImportPath is the import path of the file's own
// package.
type Dialect struct {
	ImportPath string
}

func (d Dialect) Resolve(_ string, decl source.Declaration, name string) (string, *source.Import) {
	if decl.Module == "" || decl.Module == d.ImportPath {
		return name, nil
	}
	return path.Base(decl.Module) + "." + name, &source.Import{Module: decl.Module}
}

func (d Dialect) WriteImports(b *source.Builder, imps []source.Import) {
	modules, _ := source.GroupImports(imps)
	if len(modules) == 1 {
		b.AppendLine("import ", strconv.Quote(modules[0]))
		b.AppendLine()
		return
	}
	b.AppendLine("import (")
	b.Indent(func(b *source.Builder) {
		for _, m := range modules {
			b.AppendLine(strconv.Quote(m))
		}
	})
	b.AppendLine(")")
	b.AppendLine()
}

// Format runs gofmt over the finished file without touching imports.
func (d Dialect) Format(filename string, content []byte) ([]byte, error) {
	return imports.Process(filename, content, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// FileHeader writes the generated-code marker, the package clause and the
// import position.
func FileHeader(pkg, generator string) source.Value {
	return source.Callback(func(b *source.Builder) {
		b.AppendLine("// Code generated by ", generator, ". DO NOT EDIT.")
		b.AppendLine()
		b.AppendLine("package ", pkg)
		b.AppendLine()
		b.ImportsHere()
	})
}
