package typescript

import (
	"strings"

	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// DocTag is one JSDoc block tag.
type DocTag struct {
	Tag         string
	Name        string
	Description string
}

// DocOptions configures a Doc.
type DocOptions struct {
	node.Base
	Description string
	Tags        []DocTag
}

// Doc is a JSDoc comment.
type Doc struct{ opts DocOptions }

// NewDoc returns a doc comment, or nil when there is nothing to document.
func NewDoc(opts DocOptions) *Doc {
	if strings.TrimSpace(opts.Description) == "" && len(opts.Tags) == 0 {
		return nil
	}
	return &Doc{opts: opts}
}

func (d *Doc) AppendTo(b *source.Builder) {
	node.Write(b, d.opts.Base, d.write)
}

func (d *Doc) write(b *source.Builder) {
	var lines []string
	if desc := strings.TrimSpace(d.opts.Description); desc != "" {
		lines = append(lines, strings.ReplaceAll(desc, "*/", "*\\/"))
	}
	if len(lines) > 0 && len(d.opts.Tags) > 0 {
		lines = append(lines, "")
	}
	for _, tag := range d.opts.Tags {
		parts := []string{"@" + tag.Tag}
		if tag.Name != "" {
			parts = append(parts, tag.Name)
		}
		if tag.Description != "" {
			parts = append(parts, tag.Description)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	b.Append(node.Comment(node.DocBlock, strings.Join(lines, "\n")))
}
