package openapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/errors"
)

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	return NewParser(append([]Option{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)...)
}

func TestParsePetstore(t *testing.T) {
	data, err := newTestParser(t).ParseApisAndTransform(context.Background(), "testdata/petstore.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Petstore", data.Title)
	assert.Equal(t, "1.2.0", data.Version)
	assert.Equal(t, []string{"testdata/petstore.yaml"}, data.Sources)

	ids := make([]string, len(data.Schemas))
	for i, s := range data.Schemas {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"Error", "NewPet", "Owner", "Pet", "Status"}, ids)

	t.Run("enum", func(t *testing.T) {
		status, ok := data.Schema("Status")
		require.True(t, ok)
		assert.Equal(t, api.KindEnum, status.Kind)
		assert.Equal(t, api.KindString, status.EnumBase)
		assert.Equal(t, []string{"available", "pending", "sold"}, status.EnumValues)
	})

	t.Run("allOf flattens into an object", func(t *testing.T) {
		pet, _ := data.Schema("Pet")
		require.Equal(t, api.KindObject, pet.Kind)
		names := make(map[string]bool)
		for _, p := range pet.Properties {
			names[p.Name] = p.Required
		}
		assert.Equal(t, map[string]bool{"name": true, "status": false, "owner": false, "labels": false, "id": true}, names)
	})

	t.Run("recursive references share schemas", func(t *testing.T) {
		owner, _ := data.Schema("Owner")
		pet, _ := data.Schema("Pet")
		var pets *api.Property
		for _, p := range owner.Properties {
			if p.Name == "pets" {
				pets = p
			}
		}
		require.NotNil(t, pets)
		assert.Equal(t, api.KindArray, pets.Schema.Kind)
		assert.Same(t, pet, pets.Schema.Items)
	})

	t.Run("maps", func(t *testing.T) {
		newPet, _ := data.Schema("NewPet")
		var labels *api.Property
		for _, p := range newPet.Properties {
			if p.Name == "labels" {
				labels = p
			}
		}
		require.NotNil(t, labels)
		assert.Equal(t, api.KindMap, labels.Schema.Kind)
		assert.Equal(t, api.KindString, labels.Schema.AdditionalProperties.Kind)
		assert.Equal(t, "A pet without an id.", newPet.Description)
	})

	t.Run("endpoints and services", func(t *testing.T) {
		require.Len(t, data.Endpoints, 4)
		require.Len(t, data.Services, 2)

		pets, ok := data.Service("pets")
		require.True(t, ok)
		assert.Equal(t, "Everything about your pets", pets.Description)
		assert.Len(t, pets.Endpoints, 3)

		def, ok := data.Service("default")
		require.True(t, ok)
		require.Len(t, def.Endpoints, 1)
		assert.Equal(t, "get /health", def.Endpoints[0].ID)
		assert.Equal(t, "getHealth", def.Endpoints[0].Name)
	})

	t.Run("parameters and responses", func(t *testing.T) {
		var show, list *api.Endpoint
		for _, e := range data.Endpoints {
			switch e.ID {
			case "showPetById":
				show = e
			case "listPets":
				list = e
			}
		}
		require.NotNil(t, show)
		require.Len(t, show.ParametersIn(api.InPath), 1)
		assert.True(t, show.Parameters[0].Required)

		require.NotNil(t, list)
		assert.Equal(t, "GET", list.Method)
		require.Len(t, list.ParametersIn(api.InQuery), 1)
		assert.Equal(t, "int32", list.Parameters[0].Schema.Format)
		success := list.SuccessResponse()
		require.NotNil(t, success)
		assert.Equal(t, "200", success.Status)
		assert.Equal(t, api.KindArray, success.Schema.Kind)
		assert.Len(t, list.Responses, 2)
	})
}

func TestParseVersionConstraint(t *testing.T) {
	doc := []byte("openapi: 3.0.0\ninfo: {title: t, version: '1'}\npaths: {}\n")

	_, err := newTestParser(t, WithVersionConstraint(">= 3.1.0")).ParseData(context.Background(), "inline", doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedVersion))

	data, err := newTestParser(t).ParseData(context.Background(), "inline", doc)
	require.NoError(t, err)
	assert.Equal(t, "t", data.Title)
	assert.Empty(t, data.Endpoints)
}

func TestParseSourceErrors(t *testing.T) {
	p := newTestParser(t)

	_, err := p.ParseApisAndTransform(context.Background())
	assert.True(t, errors.IsInvalidSourceError(err))

	_, err = p.ParseApisAndTransform(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsInvalidSourceError(err))

	_, err = p.ParseApisAndTransform(context.Background(), "https://example.com/openapi.yaml")
	require.True(t, errors.IsInvalidSourceError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestParseMultipleSources(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(extra, []byte(`openapi: 3.0.1
info: {title: Extra, version: '2'}
paths:
  /tags:
    get:
      operationId: listTags
      tags: [tags]
      responses:
        "200":
          description: ok
components:
  schemas:
    Tag:
      type: object
      properties:
        label: {type: string}
`), 0o644))

	data, err := newTestParser(t).ParseApisAndTransform(context.Background(), "testdata/petstore.yaml", extra)
	require.NoError(t, err)
	assert.Equal(t, "Petstore", data.Title)
	assert.Len(t, data.Sources, 2)
	_, ok := data.Schema("Tag")
	assert.True(t, ok)
	_, ok = data.Service("tags")
	assert.True(t, ok)
}
