package source

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
)

// Declaration binds a locator to the file that declares it.
type Declaration struct {
	Locator string
	// Path of the declaring file relative to the output directory.
	Path string
	// Name overrides the symbol name references were created with.
	Name string
	// Module is the language-level unit holding the declaration when it is
	// not derivable from Path (Go import path, Kotlin package).
	Module string
}

// DeclarationOption configures a Declaration at registration.
type DeclarationOption func(*Declaration)

// WithName sets the final symbol name of the declaration.
func WithName(name string) DeclarationOption {
	return func(d *Declaration) { d.Name = name }
}

// WithModule sets the module of the declaration.
func WithModule(module string) DeclarationOption {
	return func(d *Declaration) { d.Module = module }
}

// Declarations is the locator table references are resolved against. It is
// shared by every provider of a run and safe for concurrent use.
//
// Registering a locator twice keeps the last registration and logs a
// warning, unless the table is strict, in which case Register fails with a
// DuplicateDeclarationError.
type Declarations struct {
	mu      sync.RWMutex
	entries map[string]Declaration
	strict  bool
	logger  *zap.SugaredLogger
}

// DeclarationsOption configures a Declarations table.
type DeclarationsOption func(*Declarations)

// WithStrictDeclarations rejects duplicate locators.
func WithStrictDeclarations(strict bool) DeclarationsOption {
	return func(d *Declarations) { d.strict = strict }
}

// WithDeclarationsLogger sets the logger used for duplicate warnings.
func WithDeclarationsLogger(l *zap.SugaredLogger) DeclarationsOption {
	return func(d *Declarations) { d.logger = l }
}

// NewDeclarations returns an empty table.
func NewDeclarations(opts ...DeclarationsOption) *Declarations {
	d := &Declarations{entries: make(map[string]Declaration)}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.ComponentLogger("source.declarations")
	}
	return d
}

// Register binds locator to the file at path.
func (d *Declarations) Register(locator, path string, opts ...DeclarationOption) error {
	decl := Declaration{Locator: locator, Path: path}
	for _, opt := range opts {
		opt(&decl)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.entries[locator]; ok {
		if d.strict {
			return &errors.DuplicateDeclarationError{Locator: locator, Previous: prev.Path, Path: path}
		}
		d.logger.Warnw("Declaration registered twice, keeping the last one",
			logger.FieldLocator, locator,
			"previous", prev.Path,
			logger.FieldPath, path)
	}
	d.entries[locator] = decl
	return nil
}

// Lookup returns the declaration registered for locator. A nil table has
// no declarations.
func (d *Declarations) Lookup(locator string) (Declaration, bool) {
	if d == nil {
		return Declaration{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	decl, ok := d.entries[locator]
	return decl, ok
}

// Len returns the number of registered locators.
func (d *Declarations) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Locators returns the registered locators, sorted.
func (d *Declarations) Locators() []string {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.entries))
	for loc := range d.entries {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}
