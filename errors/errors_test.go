package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "try this fix")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestSentinels(t *testing.T) {
	err := NewInvalidSourceError("cannot read %s", "petstore.yaml")
	assert.True(t, IsInvalidSourceError(err))
	assert.False(t, IsUnsupportedValueError(err))
	assert.Contains(t, err.Error(), "petstore.yaml")

	unknown := NewUnknownTargetError("cobol")
	assert.True(t, Is(unknown, ErrUnknownTarget))
	assert.Contains(t, unknown.Error(), `"cobol"`)
	assert.NotEmpty(t, GetAllHints(unknown))
}

func TestMissingFieldError(t *testing.T) {
	var err error = &MissingFieldError{Node: "typescript.Variable", Fields: []string{"name", "type"}}
	wrapped := Wrap(err, "building model")

	var target *MissingFieldError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "typescript.Variable", target.Node)
	assert.Equal(t, []string{"name", "type"}, target.Fields)
	assert.Equal(t, "typescript.Variable: missing required field(s): name, type", err.Error())
}

func TestUnresolvedReferenceError(t *testing.T) {
	err := &UnresolvedReferenceError{References: []UnresolvedReference{
		{File: "b.ts", Symbol: "Pet", Locator: "schema/pet"},
		{File: "a.ts", Symbol: "Pet", Locator: "schema/pet"},
		{Symbol: "Owner", Locator: "schema/owner"},
	}}

	assert.Equal(t, []string{"schema/owner", "schema/pet"}, err.Locators())
	assert.Equal(t,
		"3 unresolved reference(s): Owner (schema/owner); a.ts: Pet (schema/pet); b.ts: Pet (schema/pet)",
		err.Error())
}

func TestProviderErrorPreservesKind(t *testing.T) {
	cause := &MissingFieldError{Node: "kotlin.DataClass", Fields: []string{"name"}}
	err := Wrap(&ProviderError{Provider: "kotlin-models", Index: 2, Phase: "generate", Err: cause}, "generate")

	var missing *MissingFieldError
	require.True(t, As(err, &missing))
	assert.Same(t, cause, missing)

	var pe *ProviderError
	require.True(t, As(err, &pe))
	assert.Equal(t, 2, pe.Index)
	assert.Contains(t, err.Error(), "provider 2 (kotlin-models) failed during generate")

	sentinel := New("boom")
	assert.True(t, Is(&ProviderError{Provider: "p", Err: sentinel}, sentinel))
}

func TestDuplicateDeclarationError(t *testing.T) {
	err := &DuplicateDeclarationError{Locator: "schema/pet", Previous: "models/pet.ts", Path: "models/pet2.ts"}
	assert.Equal(t,
		`duplicate declaration for "schema/pet": already declared in models/pet.ts, redeclared in models/pet2.ts`,
		err.Error())
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.False(t, Is(nil, ErrInvalidSource))
}

func ExampleWithHint() {
	err := New("config file missing")
	err = WithHint(err, "run 'apigen config init' to create one")
	fmt.Println(GetAllHints(err)[0])
	// Output: run 'apigen config init' to create one
}
