package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"HTTPSConnection", []string{"HTTPS", "Connection"}},
		{"petOwner", []string{"pet", "Owner"}},
		{"pet_owner-id", []string{"pet", "owner", "id"}},
		{"GET /pets/{petId}", []string{"GET", "pets", "pet", "Id"}},
		{"v2Api", []string{"v2", "Api"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}

func TestConversions(t *testing.T) {
	tests := []struct {
		input     string
		snake     string
		screaming string
		kebab     string
		pascal    string
		camel     string
	}{
		{"HTTPSConnection", "https_connection", "HTTPS_CONNECTION", "https-connection", "HTTPSConnection", "httpsConnection"},
		{"pet_owner", "pet_owner", "PET_OWNER", "pet-owner", "PetOwner", "petOwner"},
		{"list-pets", "list_pets", "LIST_PETS", "list-pets", "ListPets", "listPets"},
		{"userID", "user_id", "USER_ID", "user-id", "UserID", "userID"},
		{"available", "available", "AVAILABLE", "available", "Available", "available"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.snake, ToSnakeCase(tt.input))
			assert.Equal(t, tt.screaming, ToScreamingSnakeCase(tt.input))
			assert.Equal(t, tt.kebab, ToKebabCase(tt.input))
			assert.Equal(t, tt.pascal, ToPascalCase(tt.input))
			assert.Equal(t, tt.camel, ToCamelCase(tt.input))
		})
	}
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "_200", Identifier("200"))
	assert.Equal(t, "petId", Identifier("pet-Id"))
	assert.Equal(t, "_", Identifier("---"))
}

func TestCasingApply(t *testing.T) {
	c := Casing{Prefix: "I", Style: StylePascal, Suffix: "Dto"}
	assert.Equal(t, "IPetOwnerDto", c.Apply("pet_owner"))
	assert.Equal(t, "raw name", Casing{}.Apply("raw name"))
	assert.NoError(t, StyleKebab.Validate())
	assert.Error(t, Style("title").Validate())
}
