package faker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureResolver registra o schema recebido e devolve um valor fixo.
type captureResolver struct {
	received Schema
	calls    int
	result   any
	err      error
}

func (c *captureResolver) Resolve(_ context.Context, schema Schema) (any, error) {
	c.calls++
	c.received = schema
	if c.err != nil {
		return nil, c.err
	}
	if c.result != nil {
		return c.result, nil
	}
	n, _ := schema["maxItems"].(int)
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{"id": i}
	}
	return out, nil
}

func intPtr(n int) *int { return &n }

func userSchema() Schema {
	return Schema{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":   map[string]any{"type": "number"},
				"name": map[string]any{"type": "string"},
			},
			"required": []any{"id", "name"},
		},
	}
}

func TestGenerate_CallerBounds(t *testing.T) {
	res := &captureResolver{}
	gen := NewGenerator(res)

	items, err := gen.Generate(context.Background(), userSchema(), WithMinItems(3), WithMaxItems(3))
	require.NoError(t, err)

	assert.Len(t, items, 3)
	assert.Equal(t, 3, res.received["minItems"])
	assert.Equal(t, 3, res.received["maxItems"])
	assert.Equal(t, "array", res.received["type"])
	assert.NotNil(t, res.received["items"])
}

func TestGenerate_SchemaBoundsWin(t *testing.T) {
	schema := userSchema()
	schema["minItems"] = float64(2)
	schema["maxItems"] = float64(2)

	res := &captureResolver{}
	items, err := NewGenerator(res).Generate(context.Background(), schema, WithMinItems(10), WithMaxItems(10))
	require.NoError(t, err)

	assert.Equal(t, 2, res.received["minItems"])
	assert.Equal(t, 2, res.received["maxItems"])
	assert.Len(t, items, 2)
}

func TestGenerate_DefaultBounds(t *testing.T) {
	res := &captureResolver{}
	_, err := NewGenerator(res).Generate(context.Background(), Schema{"type": "array"})
	require.NoError(t, err)

	assert.Equal(t, DefaultMinItems, res.received["minItems"])
	assert.Equal(t, DefaultMaxItems, res.received["maxItems"])
}

func TestGenerate_DoesNotMutateSchema(t *testing.T) {
	schema := userSchema()
	_, err := NewGenerator(&captureResolver{}).Generate(context.Background(), schema, WithMaxItems(4))
	require.NoError(t, err)

	_, hasMin := schema["minItems"]
	_, hasMax := schema["maxItems"]
	assert.False(t, hasMin)
	assert.False(t, hasMax)
}

func TestGenerate_WrapsNonArrayResult(t *testing.T) {
	obj := map[string]any{"id": 100}
	res := &captureResolver{result: obj}

	schema := Schema{"type": "object", "properties": map[string]any{"id": map[string]any{"type": "number"}}}
	items, err := NewGenerator(res).Generate(context.Background(), schema, WithMinItems(1))
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, obj, items[0])

	_, hasMin := res.received["minItems"]
	assert.False(t, hasMin, "limites não se aplicam a schemas que não são array")
}

func TestGenerate_WrapsScalarResult(t *testing.T) {
	res := &captureResolver{result: "texto"}
	items, err := NewGenerator(res).Generate(context.Background(), Schema{"type": "string"})
	require.NoError(t, err)
	assert.Equal(t, []any{"texto"}, items)
}

func TestGenerate_PropagatesResolverError(t *testing.T) {
	boom := errors.New("schema inválido")
	_, err := NewGenerator(&captureResolver{err: boom}).Generate(context.Background(), userSchema())
	assert.ErrorIs(t, err, boom)
}

func TestItemBounds(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		min     *int
		max     *int
		wantMin int
		wantMax int
	}{
		{"padrões", Schema{"type": "array"}, nil, nil, 0, 50},
		{"chamador", Schema{"type": "array"}, intPtr(3), intPtr(7), 3, 7},
		{"schema vence chamador", Schema{"minItems": float64(2), "maxItems": float64(2)}, intPtr(10), intPtr(10), 2, 2},
		{"somente mínimo no schema", Schema{"minItems": float64(5)}, intPtr(1), intPtr(9), 5, 9},
		{"mínimo maior que máximo", Schema{}, intPtr(10), intPtr(3), 3, 3},
		{"mínimo do schema maior que padrão", Schema{"minItems": float64(80)}, nil, nil, 50, 50},
		{"negativos viram zero", Schema{"minItems": float64(-4), "maxItems": float64(-1)}, nil, nil, 0, 0},
		{"valores fracionários", Schema{"minItems": 2.9, "maxItems": 6.2}, nil, nil, 2, 6},
		{"valor não numérico ignorado", Schema{"minItems": "abc"}, intPtr(4), nil, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := ItemBounds(tt.schema, tt.min, tt.max)
			assert.Equal(t, tt.wantMin, gotMin)
			assert.Equal(t, tt.wantMax, gotMax)
			assert.LessOrEqual(t, gotMin, gotMax)
		})
	}
}
