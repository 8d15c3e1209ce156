package kotlin

import (
	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// DocTagOptions configures a DocTag.
type DocTagOptions struct {
	node.Base
	Args        []any
	Description any
}

// DocTag is a KDoc block tag: @tag args description.
type DocTag struct {
	tag  string
	opts DocTagOptions
}

// NewDocTag returns a doc tag with explicit arguments.
func NewDocTag(tag string, opts DocTagOptions) (*DocTag, error) {
	if err := node.Require("kotlin.DocTag", node.Required("tag", tag)); err != nil {
		return nil, err
	}
	return &DocTag{tag: tag, opts: opts}, nil
}

// tagsWithDescription take their last positional argument as description.
var tagsWithDescription = map[string]bool{
	"return": true, "constructor": true, "receiver": true, "author": true, "since": true,
	"param": true, "property": true, "throws": true, "exception": true,
}

// Tag builds a tag from positional arguments the way KDoc reads them:
// Tag("param", "id", "the pet id") is @param id the pet id. For tags that
// carry a description, the last argument is the description and is joined
// with opts.Description on a new line.
func Tag(tag string, args []any, opts DocTagOptions) (*DocTag, error) {
	if tagsWithDescription[tag] && len(args) > 0 {
		desc := args[len(args)-1]
		args = args[:len(args)-1]
		if !source.IsNil(opts.Description) && !source.IsNil(desc) {
			opts.Description = source.Join("\n", desc, opts.Description)
		} else if !source.IsNil(desc) {
			opts.Description = desc
		}
	}
	opts.Args = append(append([]any(nil), args...), opts.Args...)
	return NewDocTag(tag, opts)
}

func (t *DocTag) AppendTo(b *source.Builder) {
	node.Write(b, t.opts.Base, t.write)
}

func (t *DocTag) write(b *source.Builder) {
	b.Append("@", t.tag)
	for _, a := range t.opts.Args {
		if !source.IsNil(a) {
			b.Append(" ", a)
		}
	}
	if !source.IsNil(t.opts.Description) {
		b.Append(" ", t.opts.Description)
	}
}

// DocOptions configures a Doc.
type DocOptions struct {
	node.Base
	Description string
	Tags        []*DocTag
}

// Doc is a KDoc comment.
type Doc struct{ opts DocOptions }

// NewDoc returns a KDoc comment, or nil when there is nothing to document.
func NewDoc(opts DocOptions) *Doc {
	if opts.Description == "" && len(opts.Tags) == 0 {
		return nil
	}
	return &Doc{opts: opts}
}

func (d *Doc) AppendTo(b *source.Builder) {
	node.Write(b, d.opts.Base, d.write)
}

func (d *Doc) write(b *source.Builder) {
	text := source.New(source.Options{})
	text.Append(d.opts.Description)
	if d.opts.Description != "" && len(d.opts.Tags) > 0 {
		text.AppendLine().AppendLine()
	}
	for i, tag := range d.opts.Tags {
		if i > 0 {
			text.AppendLine()
		}
		text.Append(tag)
	}
	b.Fail(text.Err())
	b.Append(node.Comment(node.CommentStyle{Open: "/**", Line: " * ", Close: " */"}, text.String()))
}
