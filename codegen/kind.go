package codegen

//go:generate go tool stringer -type=ProviderKind -trimprefix=Kind -output=kind_string.go

// ProviderKind is the shape a provider was registered in. All shapes run
// through the same invocation path.
type ProviderKind int

const (
	// KindFactory is constructed fresh for every run.
	KindFactory ProviderKind = iota
	// KindInstance is reused across runs; Init is called before each.
	KindInstance
	// KindFunc is a plain function.
	KindFunc
)
