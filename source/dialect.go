package source

import (
	"path"
	"strings"
)

// Import is one symbol a file needs from another module.
type Import struct {
	// Module is the dialect-specific import target: a relative path, a
	// package name or an import path.
	Module string
	Name   string
	Alias  string
}

// Dialect holds the language-specific half of reference resolution.
type Dialect interface {
	// Resolve returns the text written at a reference site in file from,
	// and the import that text requires, if any.
	Resolve(from string, decl Declaration, name string) (string, *Import)
	// WriteImports renders the sorted, deduplicated imports of a file.
	WriteImports(b *Builder, imports []Import)
}

// Formatter is implemented by dialects that post-process finished files.
type Formatter interface {
	Format(path string, content []byte) ([]byte, error)
}

// PlainDialect resolves references to bare names and writes no imports.
type PlainDialect struct{}

func (PlainDialect) Resolve(_ string, _ Declaration, name string) (string, *Import) {
	return name, nil
}

func (PlainDialect) WriteImports(*Builder, []Import) {}

// RelativePath returns the path of target relative to the directory of
// from, always starting with "./" or "../", without target's extension.
// Both paths use forward slashes.
func RelativePath(from, target string) string {
	fromDir := path.Dir(path.Clean(from))
	target = strings.TrimSuffix(path.Clean(target), path.Ext(target))

	fromParts := splitDir(fromDir)
	targetParts := strings.Split(target, "/")

	common := 0
	for common < len(fromParts) && common < len(targetParts)-1 && fromParts[common] == targetParts[common] {
		common++
	}

	var sb strings.Builder
	ups := len(fromParts) - common
	if ups == 0 {
		sb.WriteString("./")
	}
	for i := 0; i < ups; i++ {
		sb.WriteString("../")
	}
	sb.WriteString(strings.Join(targetParts[common:], "/"))
	return sb.String()
}

func splitDir(dir string) []string {
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

// GroupImports groups sorted imports by module, keeping module order.
func GroupImports(imports []Import) (modules []string, byModule map[string][]Import) {
	byModule = make(map[string][]Import)
	for _, imp := range imports {
		if _, ok := byModule[imp.Module]; !ok {
			modules = append(modules, imp.Module)
		}
		byModule[imp.Module] = append(byModule[imp.Module], imp)
	}
	return modules, byModule
}
