// Package testing holds fixtures shared by provider tests.
package testing

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/codegen"
)

// OutputDir is where Run writes generated files.
const OutputDir = "out"

// Petstore returns a small API with every schema kind the providers map:
// objects, a string enum, arrays, a recursive reference and a date-time.
func Petstore() *api.Data {
	status := &api.Schema{
		ID: "Status", Name: "Status", Description: "Adoption status.",
		Kind: api.KindEnum, EnumBase: api.KindString,
		EnumValues: []string{"available", "pending", "sold"},
	}
	pet := &api.Schema{ID: "Pet", Name: "Pet", Description: "A pet in the store.", Kind: api.KindObject}
	newPet := &api.Schema{
		ID: "NewPet", Name: "NewPet", Kind: api.KindObject,
		Properties: []*api.Property{
			{Name: "name", Required: true, Schema: &api.Schema{Kind: api.KindString}},
			{Name: "tag", Schema: &api.Schema{Kind: api.KindString}},
		},
	}
	pet.Properties = []*api.Property{
		{Name: "id", Required: true, ReadOnly: true, Description: "Unique id.", Schema: &api.Schema{Kind: api.KindInteger, Format: "int64"}},
		{Name: "name", Required: true, Schema: &api.Schema{Kind: api.KindString}},
		{Name: "tag", Schema: &api.Schema{Kind: api.KindString}},
		{Name: "status", Schema: status},
		{Name: "createdAt", Schema: &api.Schema{Kind: api.KindString, Format: "date-time"}},
	}
	owner := &api.Schema{ID: "Owner", Name: "Owner", Kind: api.KindObject}
	owner.Properties = []*api.Property{
		{Name: "name", Required: true, Schema: &api.Schema{Kind: api.KindString}},
		{Name: "pets", Schema: &api.Schema{Kind: api.KindArray, Items: pet}},
		{Name: "friend", Schema: owner},
	}
	apiError := &api.Schema{
		ID: "Error", Name: "Error", Kind: api.KindObject,
		Properties: []*api.Property{
			{Name: "code", Required: true, Schema: &api.Schema{Kind: api.KindInteger, Format: "int32"}},
			{Name: "message", Required: true, Schema: &api.Schema{Kind: api.KindString}},
		},
	}

	listPets := &api.Endpoint{
		ID: "listPets", Name: "listPets", Method: "get", Path: "/pets",
		Summary: "List all pets", Tags: []string{"pets"},
		Parameters: []*api.Parameter{
			{Name: "limit", In: api.InQuery, Description: "How many items to return.", Schema: &api.Schema{Kind: api.KindInteger, Format: "int32"}},
		},
		Responses: []*api.Response{
			{Status: "200", Description: "A list of pets.", ContentType: "application/json", Schema: &api.Schema{Kind: api.KindArray, Items: pet}},
			{Status: "default", Description: "Unexpected error.", ContentType: "application/json", Schema: apiError},
		},
	}
	createPet := &api.Endpoint{
		ID: "createPet", Name: "createPet", Method: "post", Path: "/pets",
		Summary: "Create a pet", Tags: []string{"pets"},
		RequestBody: &api.RequestBody{ContentType: "application/json", Required: true, Schema: newPet},
		Responses: []*api.Response{
			{Status: "201", Description: "The created pet.", ContentType: "application/json", Schema: pet},
		},
	}
	showPet := &api.Endpoint{
		ID: "showPetById", Name: "showPetById", Method: "get", Path: "/pets/{petId}",
		Summary: "Info for a specific pet", Tags: []string{"pets"},
		Parameters: []*api.Parameter{
			{Name: "petId", In: api.InPath, Required: true, Description: "The id of the pet.", Schema: &api.Schema{Kind: api.KindString}},
		},
		Responses: []*api.Response{
			{Status: "200", Description: "The pet.", ContentType: "application/json", Schema: pet},
		},
	}

	endpoints := []*api.Endpoint{createPet, listPets, showPet}
	return &api.Data{
		Title:     "Petstore",
		Version:   "1.0.0",
		Sources:   []string{"petstore.yaml"},
		Endpoints: endpoints,
		Services: []*api.Service{
			{ID: "pets", Name: "Pets", Description: "Everything about pets.", Endpoints: endpoints},
		},
		Schemas: []*api.Schema{apiError, newPet, owner, pet, status},
	}
}

// Run generates data with the providers configure registers, into an
// in-memory file system.
func Run(t *testing.T, data *api.Data, configure func(*codegen.Generator) *codegen.Generator) (codegen.Output, afero.Fs, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	g := codegen.New(
		codegen.WithFs(fs),
		codegen.WithLogger(zaptest.NewLogger(t).Sugar()),
		codegen.WithConfig(codegen.Config{OutputDir: OutputDir, ClearOutputDir: true}),
	)
	out, err := configure(g).Generate(context.Background(), data)
	return out, fs, err
}

// ReadFile returns a generated file, failing the test when it is missing.
func ReadFile(t *testing.T, fs afero.Fs, rel string) string {
	t.Helper()
	content, err := afero.ReadFile(fs, OutputDir+"/"+rel)
	if err != nil {
		t.Fatalf("Failed to read generated file %s: %v", rel, err)
	}
	return string(content)
}
