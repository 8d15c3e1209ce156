package golang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/codegen"
	apitest "github.com/teranos/apigen/internal/testing"
)

func TestModels(t *testing.T) {
	out, fs, err := apitest.Run(t, apitest.Petstore(), func(g *codegen.Generator) *codegen.Generator {
		return g.UseFactory(NewModels, nil)
	})
	require.NoError(t, err)

	pet := apitest.ReadFile(t, fs, "go/models/pet.go")
	assert.Contains(t, pet, "// Code generated by apigen. DO NOT EDIT.\n\npackage models\n\nimport \"time\"\n\n// A pet in the store.\ntype Pet struct {\n\t// Unique id.\n")
	assert.Regexp(t, "\tId +int64 +`json:\"id\"`\n", pet)
	assert.Regexp(t, "\tTag +\\*string +`json:\"tag,omitempty\"`\n", pet)
	assert.Regexp(t, "\tStatus +\\*Status +`json:\"status,omitempty\"`\n", pet)
	assert.Regexp(t, "\tCreatedAt +\\*time.Time +`json:\"createdAt,omitempty\"`\n", pet)

	status := apitest.ReadFile(t, fs, "go/models/status.go")
	assert.Contains(t, status, "// Adoption status.\ntype Status string\n\nconst (\n")
	assert.Regexp(t, "\tStatusAvailable +Status = \"available\"\n", status)
	assert.Regexp(t, "\tStatusSold +Status = \"sold\"\n", status)
	assert.NotContains(t, status, "import")

	owner := apitest.ReadFile(t, fs, "go/models/owner.go")
	assert.Regexp(t, "\tPets +\\[\\]Pet +`json:\"pets,omitempty\"`\n", owner)
	assert.Regexp(t, "\tFriend +\\*Owner +`json:\"friend,omitempty\"`\n", owner)

	assert.Contains(t, apitest.ReadFile(t, fs, "go/models/new_pet.go"), "type NewPet struct {")

	section := out["go"].(map[string]any)
	assert.Equal(t, "example.com/api/models", section["package"])
}

func TestModelsAliases(t *testing.T) {
	data := &api.Data{Schemas: []*api.Schema{
		{ID: "Anything", Name: "Anything", Kind: api.KindAny},
		{ID: "Labels", Name: "Labels", Kind: api.KindMap, AdditionalProperties: &api.Schema{Kind: api.KindString}},
	}}
	_, fs, err := apitest.Run(t, data, func(g *codegen.Generator) *codegen.Generator {
		return g.UseFactory(NewModels, codegen.Overrides{"package": "types", "import_path": "example.com/x/types"})
	})
	require.NoError(t, err)

	assert.Equal(t, "// Code generated by apigen. DO NOT EDIT.\n\npackage types\n\ntype Anything = any\n",
		apitest.ReadFile(t, fs, "go/models/anything.go"))
	assert.Contains(t, apitest.ReadFile(t, fs, "go/models/labels.go"), "type Labels map[string]string\n")
}

func TestPointable(t *testing.T) {
	tests := []struct {
		name   string
		schema *api.Schema
		want   bool
	}{
		{name: "nil", want: false},
		{name: "string", schema: &api.Schema{Kind: api.KindString}, want: true},
		{name: "array", schema: &api.Schema{Kind: api.KindArray}, want: false},
		{name: "inline object", schema: &api.Schema{Kind: api.KindObject}, want: false},
		{name: "named struct", schema: &api.Schema{ID: "Pet", Kind: api.KindObject, Properties: []*api.Property{{Name: "a"}}}, want: true},
		{name: "enum", schema: &api.Schema{Kind: api.KindEnum}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pointable(tt.schema))
		})
	}
}
