package source

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/teranos/apigen/errors"
)

// Options configures a Builder.
type Options struct {
	// Path of the file being written, relative to the output directory.
	// Dialects use it to compute relative imports.
	Path string
	// Indent is the string written once per indentation level. Default two spaces.
	Indent string
	// Dialect resolves references and renders imports. Nil means references
	// resolve to their bare names and no imports are written.
	Dialect Dialect
	// Declarations is the table references are resolved against.
	Declarations *Declarations
}

type part struct {
	text   string
	ref    *Reference
	anchor bool
}

// Builder accumulates the text of one file. It is owned by a single write
// pass and is not safe for concurrent use.
type Builder struct {
	opts Options

	parts []part
	cur   strings.Builder

	level       int
	line        int
	column      int
	atLineStart bool
	hasAnchor   bool

	refs []*Reference
	err  error
}

// New returns an empty builder.
func New(opts Options) *Builder {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	if opts.Dialect == nil {
		opts.Dialect = PlainDialect{}
	}
	return &Builder{opts: opts, atLineStart: true}
}

// Path returns the file path the builder writes.
func (b *Builder) Path() string { return b.opts.Path }

// Options returns the builder's options.
func (b *Builder) Options() Options { return b.opts }

// Append resolves each value in order at the cursor.
func (b *Builder) Append(values ...any) *Builder {
	for _, v := range values {
		b.appendValue(v)
	}
	return b
}

// AppendLine appends the values and terminates the line. The next line
// starts at the active indentation.
func (b *Builder) AppendLine(values ...any) *Builder {
	b.Append(values...)
	b.write("\n")
	return b
}

// EnsureLine terminates the current line unless the cursor is already at a
// line start.
func (b *Builder) EnsureLine() *Builder {
	if !b.atLineStart {
		b.write("\n")
	}
	return b
}

// Indent runs fn one level deeper. The previous level is restored even if fn
// panics.
func (b *Builder) Indent(fn func(b *Builder)) *Builder {
	b.level++
	defer func() { b.level-- }()
	fn(b)
	return b
}

// IndentLines writes the values as an indented block on their own lines.
func (b *Builder) IndentLines(values ...any) *Builder {
	b.EnsureLine()
	return b.Indent(func(b *Builder) {
		b.Append(values...)
		b.EnsureLine()
	})
}

// Level returns the current indentation level.
func (b *Builder) Level() int { return b.level }

// Line returns the zero-based line of the cursor.
func (b *Builder) Line() int { return b.line }

// Column returns the cursor column in runes. Unresolved references count
// with the width of their symbol name.
func (b *Builder) Column() int { return b.column }

// IsLineStart reports whether nothing has been written on the current line.
func (b *Builder) IsLineStart() bool { return b.atLineStart }

// Err returns the first error recorded while writing.
func (b *Builder) Err() error { return b.err }

// Fail records err unless an earlier error is already recorded.
func (b *Builder) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// RegisterReference places ref at the cursor. Its text is produced at
// Finalize, once declarations are known.
func (b *Builder) RegisterReference(ref *Reference) *Builder {
	if ref == nil {
		return b
	}
	b.beforeText()
	b.flush()
	b.parts = append(b.parts, part{ref: ref})
	b.refs = append(b.refs, ref)
	b.column += utf8.RuneCountInString(ref.Name)
	b.atLineStart = false
	return b
}

// References returns the references registered so far.
func (b *Builder) References() []*Reference {
	return b.refs
}

// ImportsHere marks where collected imports are inserted at Finalize.
// Without a mark they go to the top of the file.
func (b *Builder) ImportsHere() *Builder {
	if b.hasAnchor {
		b.Fail(errors.AssertionFailedf("imports anchor set twice in %s", b.opts.Path))
		return b
	}
	b.flush()
	b.parts = append(b.parts, part{anchor: true})
	b.hasAnchor = true
	return b
}

// Fork returns an empty builder with the same options, used to render a
// fragment before deciding where it goes. See Splice.
func (b *Builder) Fork() *Builder {
	f := New(b.opts)
	f.atLineStart = false
	return f
}

// Splice writes the content of a fork at the cursor.
func (b *Builder) Splice(f *Builder) *Builder {
	f.flush()
	for _, p := range f.parts {
		switch {
		case p.ref != nil:
			b.RegisterReference(p.ref)
		case p.anchor:
		default:
			b.write(p.text)
		}
	}
	b.Fail(f.err)
	return b
}

// Width returns the rendered width of single-line content, or -1 when the
// content spans lines.
func (b *Builder) Width() int {
	if b.line > 0 {
		return -1
	}
	return b.column
}

// String renders the content with references as their bare names and
// without imports. Use Finalize for real output.
func (b *Builder) String() string {
	b.flush()
	var sb strings.Builder
	for _, p := range b.parts {
		if p.ref != nil {
			sb.WriteString(p.ref.resolvedName(Declaration{}))
			continue
		}
		sb.WriteString(p.text)
	}
	return sb.String()
}

// Finalize resolves every registered reference against the declarations,
// inserts the imports those references require, and returns the file text.
// It fails with an UnresolvedReferenceError listing every reference whose
// locator was never declared.
func (b *Builder) Finalize() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.flush()

	resolved := make(map[*Reference]string, len(b.refs))
	imports := make(map[Import]struct{})
	var unresolved []errors.UnresolvedReference

	for _, ref := range b.refs {
		if _, done := resolved[ref]; done {
			continue
		}
		decl, ok := b.opts.Declarations.Lookup(ref.Locator)
		if !ok {
			unresolved = append(unresolved, errors.UnresolvedReference{
				File:    b.opts.Path,
				Symbol:  ref.Name,
				Locator: ref.Locator,
			})
			continue
		}
		text, imp := b.opts.Dialect.Resolve(b.opts.Path, decl, ref.resolvedName(decl))
		resolved[ref] = text
		if imp != nil {
			imports[*imp] = struct{}{}
		}
	}
	if len(unresolved) > 0 {
		return "", &errors.UnresolvedReferenceError{References: unresolved}
	}

	importText := ""
	if len(imports) > 0 {
		list := make([]Import, 0, len(imports))
		for imp := range imports {
			list = append(list, imp)
		}
		sortImports(list)
		ib := New(Options{Path: b.opts.Path, Indent: b.opts.Indent, Dialect: b.opts.Dialect})
		b.opts.Dialect.WriteImports(ib, list)
		if ib.err != nil {
			return "", ib.err
		}
		importText = ib.String()
	}

	var sb strings.Builder
	if !b.hasAnchor {
		sb.WriteString(importText)
	}
	for _, p := range b.parts {
		switch {
		case p.ref != nil:
			sb.WriteString(resolved[p.ref])
		case p.anchor:
			sb.WriteString(importText)
		default:
			sb.WriteString(p.text)
		}
	}
	out := sb.String()

	if f, ok := b.opts.Dialect.(Formatter); ok {
		formatted, err := f.Format(b.opts.Path, []byte(out))
		if err != nil {
			return "", errors.Wrapf(err, "failed to format %s", b.opts.Path)
		}
		out = string(formatted)
	}
	return out, nil
}

func (b *Builder) appendValue(v any) {
	if IsNil(v) {
		return
	}
	switch x := v.(type) {
	case string:
		b.write(x)
	case Value:
		x.AppendTo(b)
	case func(*Builder):
		x(b)
	case []any:
		Concat(x...).AppendTo(b)
	default:
		b.Fail(errors.Wrapf(errors.ErrUnsupportedValue, "cannot append %T", v))
	}
}

// write appends text, indenting every non-empty line that starts here.
func (b *Builder) write(s string) {
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		seg := s
		if i >= 0 {
			seg = s[:i]
			s = s[i+1:]
		} else {
			s = ""
		}
		if seg != "" {
			b.beforeText()
			b.cur.WriteString(seg)
			b.column += utf8.RuneCountInString(seg)
			b.atLineStart = false
		}
		if i >= 0 {
			b.cur.WriteByte('\n')
			b.line++
			b.column = 0
			b.atLineStart = true
		}
	}
}

func (b *Builder) beforeText() {
	if b.atLineStart && b.level > 0 {
		indent := strings.Repeat(b.opts.Indent, b.level)
		b.cur.WriteString(indent)
		b.column += utf8.RuneCountInString(indent)
		b.atLineStart = false
	}
}

func (b *Builder) flush() {
	if b.cur.Len() == 0 {
		return
	}
	b.parts = append(b.parts, part{text: b.cur.String()})
	b.cur.Reset()
}

func sortImports(list []Import) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Module != list[j].Module {
			return list[i].Module < list[j].Module
		}
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Alias < list[j].Alias
	})
}
