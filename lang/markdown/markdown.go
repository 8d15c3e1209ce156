// Package markdown renders documentation pages. References resolve to
// relative links, so pages can point at each other before they exist.
package markdown

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// Dialect turns a reference into a link to the declaring page and anchor.
type Dialect struct{}

func (Dialect) Resolve(from string, decl source.Declaration, name string) (string, *source.Import) {
	target := ""
	if decl.Path != from {
		target = source.RelativePath(from, decl.Path) + ".md"
	}
	return "[" + name + "](" + target + "#" + Anchor(name) + ")", nil
}

func (Dialect) WriteImports(*source.Builder, []source.Import) {}

// Format ends a page with exactly one newline. Every block writes an empty
// line after itself, so the last one would otherwise leave a blank line at
// the end of the file.
func (Dialect) Format(_ string, content []byte) ([]byte, error) {
	trimmed := bytes.TrimRight(content, "\n")
	if len(trimmed) == 0 {
		return trimmed, nil
	}
	return append(trimmed, '\n'), nil
}

// Anchor returns the anchor GitHub assigns to a heading titled title:
// lower case, spaces become hyphens, other punctuation is dropped.
func Anchor(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r == ' ':
			sb.WriteRune('-')
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Heading returns a heading of the given level.
func Heading(level int, title ...any) source.Value {
	return source.Callback(func(b *source.Builder) {
		b.EnsureLine()
		b.AppendLine(strings.Repeat("#", level), " ", source.Concat(title...))
		b.AppendLine()
	})
}

// Paragraph returns a paragraph followed by an empty line. Blank text
// writes nothing.
func Paragraph(text string) source.Value {
	text = strings.TrimSpace(text)
	return source.Callback(func(b *source.Builder) {
		if text == "" {
			return
		}
		b.EnsureLine()
		b.AppendLine(text)
		b.AppendLine()
	})
}

// Code returns inline code.
func Code(s string) source.Value {
	return source.Literal("`" + s + "`")
}

// CodeBlock returns a fenced block followed by an empty line.
func CodeBlock(lang, content string) source.Value {
	return source.Callback(func(b *source.Builder) {
		b.EnsureLine()
		b.AppendLine("```", lang)
		b.AppendLine(strings.TrimRight(content, "\n"))
		b.AppendLine("```")
		b.AppendLine()
	})
}

// TableOptions configures a Table.
type TableOptions struct {
	node.Base
	Header []string
	Rows   [][]any
}

// Table is a GitHub-flavored table.
type Table struct{ opts TableOptions }

// NewTable returns a table.
func NewTable(opts TableOptions) (*Table, error) {
	if err := node.Require("markdown.Table", node.Required("header", opts.Header)); err != nil {
		return nil, err
	}
	return &Table{opts: opts}, nil
}

func (t *Table) AppendTo(b *source.Builder) {
	node.Write(b, t.opts.Base, t.write)
}

func (t *Table) write(b *source.Builder) {
	b.EnsureLine()
	b.AppendLine("| ", strings.Join(t.opts.Header, " | "), " |")
	seps := make([]string, len(t.opts.Header))
	for i := range seps {
		seps[i] = "---"
	}
	b.AppendLine("| ", strings.Join(seps, " | "), " |")
	for _, row := range t.opts.Rows {
		cells := make([]any, len(t.opts.Header))
		for i := range cells {
			cells[i] = " "
			if i < len(row) && !source.IsNil(row[i]) {
				cells[i] = row[i]
			}
		}
		b.AppendLine("| ", source.Join(" | ", cells...), " |")
	}
	b.AppendLine()
}
