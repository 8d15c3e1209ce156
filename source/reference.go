package source

// Reference is a symbol declared somewhere else, possibly in a file that
// has not been written yet. It is a Value: appending it places a slot that
// Finalize fills with the resolved name, adding an import when the
// declaration lives in another file.
type Reference struct {
	// Name is the symbol as written when the declaration does not override it.
	Name string
	// Locator identifies the declaration, e.g. "schema/pet".
	Locator string
	// Transform, if set, is applied to the resolved name (casing rules).
	Transform func(string) string
}

// ReferenceOption configures a Reference.
type ReferenceOption func(*Reference)

// WithTransform applies fn to the resolved symbol name.
func WithTransform(fn func(string) string) ReferenceOption {
	return func(r *Reference) { r.Transform = fn }
}

// CreateReference returns a reference to name declared at locator. The
// declaration may be registered before or after this call; only Finalize
// requires it.
func CreateReference(name, locator string, opts ...ReferenceOption) *Reference {
	r := &Reference{Name: name, Locator: locator}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReferenceFactory returns a constructor for repeated references to the
// same declaration.
func ReferenceFactory(name, locator string, opts ...ReferenceOption) func() *Reference {
	return func() *Reference {
		return CreateReference(name, locator, opts...)
	}
}

func (r *Reference) AppendTo(b *Builder) {
	b.RegisterReference(r)
}

func (r *Reference) resolvedName(decl Declaration) string {
	name := r.Name
	if decl.Name != "" {
		name = decl.Name
	}
	if r.Transform != nil {
		name = r.Transform(name)
	}
	return name
}
