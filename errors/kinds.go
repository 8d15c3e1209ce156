package errors

import (
	"fmt"
	"sort"
	"strings"
)

// MissingFieldError is returned when an AST node is constructed without
// one or more of its required fields.
type MissingFieldError struct {
	Node   string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field(s): %s", e.Node, strings.Join(e.Fields, ", "))
}

// UnresolvedReference names one reference that never matched a declaration.
type UnresolvedReference struct {
	File    string
	Symbol  string
	Locator string
}

func (r UnresolvedReference) String() string {
	if r.File == "" {
		return fmt.Sprintf("%s (%s)", r.Symbol, r.Locator)
	}
	return fmt.Sprintf("%s: %s (%s)", r.File, r.Symbol, r.Locator)
}

// UnresolvedReferenceError lists every reference left unresolved at finalize.
type UnresolvedReferenceError struct {
	References []UnresolvedReference
}

func (e *UnresolvedReferenceError) Error() string {
	parts := make([]string, len(e.References))
	for i, r := range e.References {
		parts[i] = r.String()
	}
	sort.Strings(parts)
	return fmt.Sprintf("%d unresolved reference(s): %s", len(e.References), strings.Join(parts, "; "))
}

// Locators returns the distinct locators of the unresolved references, sorted.
func (e *UnresolvedReferenceError) Locators() []string {
	seen := make(map[string]struct{}, len(e.References))
	var out []string
	for _, r := range e.References {
		if _, ok := seen[r.Locator]; ok {
			continue
		}
		seen[r.Locator] = struct{}{}
		out = append(out, r.Locator)
	}
	sort.Strings(out)
	return out
}

// DuplicateDeclarationError is returned in strict mode when a locator is
// registered a second time.
type DuplicateDeclarationError struct {
	Locator  string
	Previous string
	Path     string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration for %q: already declared in %s, redeclared in %s", e.Locator, e.Previous, e.Path)
}

// ProviderError records which pipeline stage failed. Unwrap exposes the
// provider's own error so its kind stays inspectable.
type ProviderError struct {
	Provider string
	Index    int
	Phase    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %d (%s) failed during %s: %v", e.Index, e.Provider, e.Phase, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
