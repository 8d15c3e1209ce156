package kotlin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/apigen/codegen"
	apitest "github.com/teranos/apigen/internal/testing"
)

const modelsDir = "kotlin/com/example/api/models/"

func TestModels(t *testing.T) {
	out, fs, err := apitest.Run(t, apitest.Petstore(), func(g *codegen.Generator) *codegen.Generator {
		return g.UseFactory(NewModels, nil)
	})
	require.NoError(t, err)

	pet := apitest.ReadFile(t, fs, modelsDir+"Pet.kt")
	for _, want := range []string{
		"package com.example.api.models\n\nimport kotlinx.serialization.SerialName\nimport kotlinx.serialization.Serializable\n\n",
		"/**\n * A pet in the store.\n *\n * @property id Unique id.\n */\n@Serializable\ndata class Pet(\n",
		"    @SerialName(\"id\") val id: Long,\n",
		"    @SerialName(\"name\") val name: String,\n",
		"    @SerialName(\"status\") val status: Status? = null,\n",
		"    @SerialName(\"createdAt\") val createdAt: String? = null,\n)\n",
	} {
		assert.Contains(t, pet, want)
	}

	assert.Equal(t, `package com.example.api.models

import kotlinx.serialization.SerialName
import kotlinx.serialization.Serializable

/**
 * Adoption status.
 */
@Serializable
enum class Status(val value: String) {
    @SerialName("available") AVAILABLE("available"),
    @SerialName("pending") PENDING("pending"),
    @SerialName("sold") SOLD("sold");
}
`, apitest.ReadFile(t, fs, modelsDir+"Status.kt"))

	owner := apitest.ReadFile(t, fs, modelsDir+"Owner.kt")
	assert.Contains(t, owner, "val pets: List<Pet>? = null")
	assert.Contains(t, owner, "val friend: Owner? = null")
	assert.NotContains(t, owner, "import com.example.api.models")

	section := out["kotlin"].(map[string]any)
	assert.Equal(t, "com.example.api.models", section["package"])
	assert.Len(t, section["models"], 5)
}

func TestModelsWithoutSerialization(t *testing.T) {
	_, fs, err := apitest.Run(t, apitest.Petstore(), func(g *codegen.Generator) *codegen.Generator {
		return g.UseFactory(NewModels, codegen.Overrides{"serializable": false, "package": "org.acme"})
	})
	require.NoError(t, err)

	assert.Equal(t, `package org.acme

data class Error(val code: Int, val message: String)
`, apitest.ReadFile(t, fs, "kotlin/org/acme/Error.kt"))
}

func TestModelsRequiresPackage(t *testing.T) {
	_, _, err := apitest.Run(t, apitest.Petstore(), func(g *codegen.Generator) *codegen.Generator {
		return g.UseFactory(NewModels, codegen.Overrides{"package": ""})
	})
	assert.ErrorContains(t, err, "package must not be empty")
}

func TestEnumEntryName(t *testing.T) {
	tests := map[string]string{
		"available":   "AVAILABLE",
		"in-progress": "IN_PROGRESS",
		"1":           "_1",
		"":            "EMPTY",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, enumEntryName(in))
		})
	}
}
