// Package providers is the registry of generation targets. The CLI builds
// its pipeline from target names in the order the user lists them.
package providers

import (
	"slices"
	"sort"

	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/providers/golang"
	"github.com/teranos/apigen/providers/kotlin"
	"github.com/teranos/apigen/providers/markdown"
	"github.com/teranos/apigen/providers/typescript"
)

// Target is a registered provider.
type Target struct {
	Name        string
	Language    string
	Description string
	Factory     codegen.ProviderFactory
	// Requires names targets that must run earlier in the same pipeline.
	Requires []string
}

var targets = map[string]Target{
	typescript.ModelsTarget: {
		Name:        typescript.ModelsTarget,
		Language:    "typescript",
		Description: "interfaces and type aliases for every schema, with an index barrel",
		Factory:     typescript.NewModels,
	},
	typescript.ClientsTarget: {
		Name:        typescript.ClientsTarget,
		Language:    "typescript",
		Description: "fetch-based client class per service",
		Factory:     typescript.NewClients,
		Requires:    []string{typescript.ModelsTarget},
	},
	kotlin.ModelsTarget: {
		Name:        kotlin.ModelsTarget,
		Language:    "kotlin",
		Description: "data classes and enum classes with KDoc",
		Factory:     kotlin.NewModels,
	},
	golang.ModelsTarget: {
		Name:        golang.ModelsTarget,
		Language:    "go",
		Description: "structs with json tags, gofmt'd",
		Factory:     golang.NewModels,
	},
	markdown.DocsTarget: {
		Name:        markdown.DocsTarget,
		Language:    "markdown",
		Description: "API reference pages per service and a models page",
		Factory:     markdown.NewDocs,
	},
}

// Lookup returns the target registered under name.
func Lookup(name string) (Target, error) {
	t, ok := targets[name]
	if !ok {
		return Target{}, errors.NewUnknownTargetError(name)
	}
	return t, nil
}

// Names returns the registered target names, sorted.
func Names() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered target, sorted by name.
func All() []Target {
	out := make([]Target, 0, len(targets))
	for _, name := range Names() {
		out = append(out, targets[name])
	}
	return out
}

// Pipeline registers the named targets on g in the given order. overrides
// holds each target's provider configuration by name. A target listed
// before one it requires is an error.
func Pipeline(g *codegen.Generator, names []string, overrides map[string]codegen.Overrides) (*codegen.Generator, error) {
	for i, name := range names {
		t, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		for _, req := range t.Requires {
			if !slices.Contains(names[:i], req) {
				return nil, errors.WithHint(
					errors.Newf("target %s requires %s to run before it", name, req),
					"reorder the targets list in apigen.toml or on the command line")
			}
		}
		g = g.UseFactory(t.Factory, overrides[name])
	}
	return g, nil
}
