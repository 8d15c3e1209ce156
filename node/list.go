package node

import (
	"strings"

	"github.com/teranos/apigen/source"
)

// List writes items between Open and Close. Items go on one line separated
// by Separator unless that line would exceed MaxLineLength, in which case
// each item gets its own indented line. Each item is written exactly once.
type List struct {
	Items     []any
	Open      string
	Close     string
	Separator string
	// MaxLineLength of zero keeps the list inline.
	MaxLineLength int
	// TrailingSeparator ends the last item of a broken list with the separator.
	TrailingSeparator bool
}

func (l List) AppendTo(b *source.Builder) {
	forks := make([]*source.Builder, 0, len(l.Items))
	width := 0
	multiline := false
	for _, item := range l.Items {
		if source.IsNil(item) {
			continue
		}
		f := b.Fork()
		f.Append(item)
		if w := f.Width(); w < 0 {
			multiline = true
		} else {
			width += w
		}
		forks = append(forks, f)
	}
	if n := len(forks); n > 1 {
		width += (n - 1) * len(l.Separator)
	}

	fits := l.MaxLineLength <= 0 ||
		(!multiline && b.Column()+len(l.Open)+width+len(l.Close) <= l.MaxLineLength)

	b.Append(l.Open)
	if fits || len(forks) == 0 {
		for i, f := range forks {
			if i > 0 {
				b.Append(l.Separator)
			}
			b.Splice(f)
		}
		b.Append(l.Close)
		return
	}

	sep := strings.TrimRight(l.Separator, " ")
	b.Indent(func(b *source.Builder) {
		for i, f := range forks {
			b.EnsureLine()
			b.Splice(f)
			if i < len(forks)-1 || l.TrailingSeparator {
				b.Append(sep)
			}
		}
	})
	b.EnsureLine()
	b.Append(l.Close)
}

// Lines writes each item on its own line, with an empty line between items
// when spaced is set.
func Lines(spaced bool, items ...any) source.Value {
	return source.Callback(func(b *source.Builder) {
		first := true
		for _, item := range items {
			if source.IsNil(item) {
				continue
			}
			b.EnsureLine()
			if spaced && !first {
				b.AppendLine()
			}
			first = false
			b.Append(item)
		}
		b.EnsureLine()
	})
}
