package source

import (
	"sort"

	"github.com/teranos/apigen/errors"
)

// File is one finalized file.
type File struct {
	Path    string
	Content string
}

// FileSet groups the builders of one provider run around a shared
// declarations table so files can reference each other in any order.
type FileSet struct {
	decls  *Declarations
	indent string
	files  []*Builder
	byPath map[string]*Builder
}

// NewFileSet returns a file set resolving against decls. indent is the
// default indentation of its files.
func NewFileSet(decls *Declarations, indent string) *FileSet {
	return &FileSet{decls: decls, indent: indent, byPath: make(map[string]*Builder)}
}

// Declarations returns the table the set resolves against.
func (s *FileSet) Declarations() *Declarations { return s.decls }

// NewFile returns the builder for path, creating it on first use.
func (s *FileSet) NewFile(path string, dialect Dialect) *Builder {
	if b, ok := s.byPath[path]; ok {
		return b
	}
	b := New(Options{Path: path, Indent: s.indent, Dialect: dialect, Declarations: s.decls})
	s.files = append(s.files, b)
	s.byPath[path] = b
	return b
}

// Declare registers locator as declared by the file at path.
func (s *FileSet) Declare(locator, path string, opts ...DeclarationOption) error {
	return s.decls.Register(locator, path, opts...)
}

// Paths returns the paths of the files in creation order.
func (s *FileSet) Paths() []string {
	out := make([]string, len(s.files))
	for i, b := range s.files {
		out[i] = b.Path()
	}
	return out
}

// Finalize finalizes every file. Unresolved references of all files are
// reported together in one UnresolvedReferenceError; any other failure
// stops at the first file.
func (s *FileSet) Finalize() ([]File, error) {
	out := make([]File, 0, len(s.files))
	var unresolved []errors.UnresolvedReference
	for _, b := range s.files {
		content, err := b.Finalize()
		if err != nil {
			var ure *errors.UnresolvedReferenceError
			if errors.As(err, &ure) {
				unresolved = append(unresolved, ure.References...)
				continue
			}
			return nil, errors.Wrapf(err, "failed to finalize %s", b.Path())
		}
		out = append(out, File{Path: b.Path(), Content: content})
	}
	if len(unresolved) > 0 {
		return nil, &errors.UnresolvedReferenceError{References: unresolved}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
