package codegen

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Provider is a stateful plugin: the generator calls Init with the run
// context and the caller's overrides, then Generate.
type Provider interface {
	Init(pc *Context, overrides Overrides) error
	Generate(ctx context.Context) (Output, error)
}

// ProviderFactory constructs a fresh Provider for every run.
type ProviderFactory func() Provider

// ProviderFunc is a stateless provider.
type ProviderFunc func(ctx context.Context, pc *Context, overrides Overrides) (Output, error)

// Named is implemented by providers that report their own name in logs
// and errors.
type Named interface {
	Name() string
}

// Phases reported in ProviderError.
const (
	PhaseConstruct = "construct"
	PhaseInit      = "init"
	PhaseGenerate  = "generate"
)

// ProviderInfo describes one registered provider.
type ProviderInfo struct {
	Name string
	Kind ProviderKind
}

// step is a registered provider in any shape.
type step struct {
	kind      ProviderKind
	name      string
	factory   ProviderFactory
	instance  Provider
	fn        ProviderFunc
	overrides Overrides
}

func (s step) info() ProviderInfo {
	return ProviderInfo{Name: s.name, Kind: s.kind}
}

// invoke runs the step and reports the phase it stopped in.
func (s step) invoke(ctx context.Context, pc *Context) (Output, string, error) {
	switch s.kind {
	case KindFactory:
		p := s.factory()
		if p == nil {
			return nil, PhaseConstruct, fmt.Errorf("factory for %s returned nil", s.name)
		}
		return initAndGenerate(ctx, p, pc, s.overrides)
	case KindInstance:
		return initAndGenerate(ctx, s.instance, pc, s.overrides)
	case KindFunc:
		out, err := s.fn(ctx, pc, s.overrides)
		return out, PhaseGenerate, err
	default:
		return nil, PhaseConstruct, fmt.Errorf("unknown provider kind %s", s.kind)
	}
}

func initAndGenerate(ctx context.Context, p Provider, pc *Context, overrides Overrides) (Output, string, error) {
	if err := p.Init(pc, overrides); err != nil {
		return nil, PhaseInit, err
	}
	out, err := p.Generate(ctx)
	return out, PhaseGenerate, err
}

func providerName(p Provider) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", p), "*")
}

func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
