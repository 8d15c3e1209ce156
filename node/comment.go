package node

import (
	"strings"

	"github.com/teranos/apigen/source"
)

// CommentStyle describes a block comment syntax.
type CommentStyle struct {
	Open   string
	Line   string
	Close  string
	Single string
}

var (
	// DocBlock is the /** */ style of JSDoc and KDoc.
	DocBlock = CommentStyle{Open: "/**", Line: " * ", Close: " */", Single: "/** %s */"}
	// LineComments is // per line, as in Go doc comments.
	LineComments = CommentStyle{Line: "// "}
)

// Comment writes text in the given style, one comment line per text line.
// Empty text writes nothing. A single line uses the style's Single form
// when it has one.
func Comment(style CommentStyle, text string) source.Value {
	return source.Callback(func(b *source.Builder) {
		text = strings.TrimRight(text, "\n")
		if strings.TrimSpace(text) == "" {
			return
		}
		lines := strings.Split(text, "\n")
		if len(lines) == 1 && style.Single != "" {
			b.EnsureLine()
			b.AppendLine(strings.Replace(style.Single, "%s", lines[0], 1))
			return
		}
		b.EnsureLine()
		if style.Open != "" {
			b.AppendLine(style.Open)
		}
		for _, line := range lines {
			if line == "" {
				b.AppendLine(strings.TrimRight(style.Line, " "))
				continue
			}
			b.AppendLine(style.Line, line)
		}
		if style.Close != "" {
			b.AppendLine(style.Close)
		}
	})
}
