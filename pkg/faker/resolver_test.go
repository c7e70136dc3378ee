package faker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSchema(t *testing.T, raw string) Schema {
	t.Helper()
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return s
}

func TestSchemaResolver_Scalars(t *testing.T) {
	r := NewSchemaResolver(WithSeed(7))
	ctx := context.Background()

	t.Run("Integer respeita limites", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			v, err := r.Resolve(ctx, Schema{"type": "integer", "minimum": float64(10), "maximum": float64(12)})
			require.NoError(t, err)
			n, ok := v.(int)
			require.True(t, ok)
			assert.GreaterOrEqual(t, n, 10)
			assert.LessOrEqual(t, n, 12)
		}
	})

	t.Run("Integer exclusivo e múltiplo", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			v, err := r.Resolve(ctx, Schema{"type": "integer", "exclusiveMinimum": float64(0), "maximum": float64(20), "multipleOf": float64(5)})
			require.NoError(t, err)
			n := v.(int)
			assert.Contains(t, []int{5, 10, 15, 20}, n)
		}
	})

	t.Run("Number dentro do intervalo", func(t *testing.T) {
		v, err := r.Resolve(ctx, Schema{"type": "number", "minimum": 1.5, "maximum": 2.5})
		require.NoError(t, err)
		f := v.(float64)
		assert.GreaterOrEqual(t, f, 1.5)
		assert.LessOrEqual(t, f, 2.5)
	})

	t.Run("Boolean e null", func(t *testing.T) {
		v, err := r.Resolve(ctx, Schema{"type": "boolean"})
		require.NoError(t, err)
		assert.IsType(t, true, v)

		v, err = r.Resolve(ctx, Schema{"type": "null"})
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("Const e enum", func(t *testing.T) {
		v, err := r.Resolve(ctx, Schema{"const": "fixo"})
		require.NoError(t, err)
		assert.Equal(t, "fixo", v)

		v, err = r.Resolve(ctx, Schema{"type": "string", "enum": []any{"a", "b"}})
		require.NoError(t, err)
		assert.Contains(t, []any{"a", "b"}, v)
	})
}

func TestSchemaResolver_StringFormats(t *testing.T) {
	r := NewSchemaResolver(WithSeed(3))
	ctx := context.Background()

	v, err := r.Resolve(ctx, Schema{"type": "string", "format": "email"})
	require.NoError(t, err)
	assert.Contains(t, v, "@")

	v, err = r.Resolve(ctx, Schema{"type": "string", "format": "uuid"})
	require.NoError(t, err)
	_, err = uuid.Parse(v.(string))
	assert.NoError(t, err)

	v, err = r.Resolve(ctx, Schema{"type": "string", "minLength": float64(4), "maxLength": float64(6)})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(v.(string)), 4)
	assert.LessOrEqual(t, len(v.(string)), 6)

	v, err = r.Resolve(ctx, Schema{"type": "string", "faker": "name.firstName"})
	require.NoError(t, err)
	assert.NotEmpty(t, v)

	_, err = r.Resolve(ctx, Schema{"type": "string", "faker": "nao.existe"})
	assert.ErrorIs(t, err, ErrUnknownFaker)
}

func TestSchemaResolver_ObjectAndArray(t *testing.T) {
	schema := decodeSchema(t, `{
		"type": "array",
		"minItems": 3,
		"maxItems": 3,
		"items": {
			"type": "object",
			"properties": {
				"id": {"type": "string", "format": "uuid"},
				"name": {"type": "string", "faker": "name.fullName"},
				"age": {"type": "integer", "minimum": 18, "maximum": 90}
			},
			"required": ["id", "name", "age"]
		}
	}`)

	v, err := NewSchemaResolver(WithSeed(11)).Resolve(context.Background(), schema)
	require.NoError(t, err)

	items, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, items, 3)
	for _, item := range items {
		obj := item.(map[string]any)
		assert.Contains(t, obj, "id")
		assert.Contains(t, obj, "name")
		age := obj["age"].(int)
		assert.GreaterOrEqual(t, age, 18)
	}
}

func TestSchemaResolver_OptionalProperties(t *testing.T) {
	schema := Schema{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "string"},
		},
	}
	v, err := NewSchemaResolver(WithAlwaysFakeOptionals()).Resolve(context.Background(), schema)
	require.NoError(t, err)
	assert.Len(t, v.(map[string]any), 2)
}

func TestSchemaResolver_Refs(t *testing.T) {
	schema := decodeSchema(t, `{
		"definitions": {"status": {"type": "string", "enum": ["ativo"]}},
		"$defs": {"base": {"type": "object", "properties": {"id": {"type": "integer"}}, "required": ["id"]}},
		"type": "object",
		"allOf": [
			{"$ref": "#/$defs/base"},
			{"properties": {"status": {"$ref": "#/definitions/status"}}, "required": ["status"]}
		]
	}`)

	v, err := NewSchemaResolver(WithSeed(1)).Resolve(context.Background(), schema)
	require.NoError(t, err)

	obj := v.(map[string]any)
	assert.Equal(t, "ativo", obj["status"])
	assert.IsType(t, 0, obj["id"])
}

func TestSchemaResolver_Errors(t *testing.T) {
	r := NewSchemaResolver()
	ctx := context.Background()

	_, err := r.Resolve(ctx, Schema{"$ref": "http://example.com/schema.json"})
	assert.ErrorIs(t, err, ErrUnresolvableRef)

	_, err = r.Resolve(ctx, Schema{"$ref": "#/definitions/inexistente"})
	assert.ErrorIs(t, err, ErrUnresolvableRef)

	_, err = r.Resolve(ctx, Schema{"$ref": "#"})
	assert.ErrorIs(t, err, ErrMaxDepth)

	_, err = r.Resolve(ctx, Schema{"type": "tipo-invalido"})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.True(t, strings.Contains(err.Error(), "tipo-invalido"))
}

func TestSchemaResolver_SeedIsReproducible(t *testing.T) {
	schema := Schema{"type": "array", "minItems": 5, "maxItems": 5, "items": map[string]any{"type": "string", "format": "email"}}

	a, err := NewSchemaResolver(WithSeed(99)).Resolve(context.Background(), schema)
	require.NoError(t, err)
	b, err := NewSchemaResolver(WithSeed(99)).Resolve(context.Background(), schema)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_WithSchemaResolverDefaults(t *testing.T) {
	items, err := NewGenerator(nil).Generate(context.Background(), Schema{"type": "array", "items": map[string]any{"type": "integer"}})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(items), DefaultMaxItems)
}
