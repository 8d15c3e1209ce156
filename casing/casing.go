// Package casing converts names between the identifier conventions of the
// generated languages.
package casing

import (
	"strings"
	"unicode"

	"github.com/teranos/apigen/errors"
)

// Words splits s into words at separators (anything that is not a letter
// or digit) and at case boundaries. Acronyms stay together:
// "HTTPSConnection" -> ["HTTPS", "Connection"].
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		if unicode.IsUpper(r) {
			// Break before an upper-case letter unless inside an acronym,
			// and before the last capital of an acronym followed by lower case.
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))
	return words
}

// ToSnakeCase converts any casing to snake_case.
// Handles acronyms properly (e.g., "HTTPSConnection" -> "https_connection")
func ToSnakeCase(s string) string {
	return strings.ToLower(strings.Join(Words(s), "_"))
}

// ToScreamingSnakeCase converts any casing to SCREAMING_SNAKE_CASE.
func ToScreamingSnakeCase(s string) string {
	return strings.ToUpper(strings.Join(Words(s), "_"))
}

// ToKebabCase converts any casing to kebab-case.
func ToKebabCase(s string) string {
	return strings.ToLower(strings.Join(Words(s), "-"))
}

// ToPascalCase converts any casing to PascalCase. The rest of each word
// keeps its case, so acronyms survive ("user_ID" -> "UserID").
func ToPascalCase(s string) string {
	var result strings.Builder
	for _, word := range Words(s) {
		runes := []rune(word)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}

// ToCamelCase converts any casing to camelCase
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	first := strings.ToLower(words[0])
	return first + ToPascalCase(strings.Join(words[1:], "_"))
}

// Identifier makes s usable as an identifier: characters that are not
// letters, digits or underscores are dropped and a leading digit is
// prefixed with an underscore.
func Identifier(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			result.WriteRune(r)
		}
	}
	out := result.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		return "_" + out
	}
	return out
}

// Style names a casing convention in configuration.
type Style string

const (
	StyleUnchanged      Style = ""
	StylePascal         Style = "pascal"
	StyleCamel          Style = "camel"
	StyleSnake          Style = "snake"
	StyleScreamingSnake Style = "screaming-snake"
	StyleKebab          Style = "kebab"
)

// Apply converts s to the style.
func (st Style) Apply(s string) string {
	switch st {
	case StylePascal:
		return ToPascalCase(s)
	case StyleCamel:
		return ToCamelCase(s)
	case StyleSnake:
		return ToSnakeCase(s)
	case StyleScreamingSnake:
		return ToScreamingSnakeCase(s)
	case StyleKebab:
		return ToKebabCase(s)
	default:
		return s
	}
}

// Validate reports an unknown style.
func (st Style) Validate() error {
	switch st {
	case StyleUnchanged, StylePascal, StyleCamel, StyleSnake, StyleScreamingSnake, StyleKebab:
		return nil
	}
	return errors.Newf("unknown casing style %q", string(st))
}

// Casing is a configurable naming rule: the name is cased, then wrapped in
// prefix and suffix.
type Casing struct {
	Prefix string `mapstructure:"prefix"`
	Style  Style  `mapstructure:"style"`
	Suffix string `mapstructure:"suffix"`
}

// Apply returns the name produced by the rule.
func (c Casing) Apply(s string) string {
	return c.Prefix + c.Style.Apply(s) + c.Suffix
}
