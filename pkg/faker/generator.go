package faker

import (
	"context"
	"encoding/json"
	"math"
)

const (
	// DefaultMinItems é o mínimo de itens quando nem o schema nem o chamador o definem.
	DefaultMinItems = 0
	// DefaultMaxItems é o máximo de itens quando nem o schema nem o chamador o definem.
	DefaultMaxItems = 50
)

// Schema é um fragmento de JSON Schema já decodificado.
type Schema map[string]any

// Resolver transforma um schema em um valor sintético.
type Resolver interface {
	Resolve(ctx context.Context, schema Schema) (any, error)
}

// ResolverFunc adapta uma função comum para a interface Resolver.
type ResolverFunc func(ctx context.Context, schema Schema) (any, error)

func (f ResolverFunc) Resolve(ctx context.Context, schema Schema) (any, error) {
	return f(ctx, schema)
}

// Option configura uma chamada de Generate.
type Option func(*generateOptions)

type generateOptions struct {
	minItems *int
	maxItems *int
}

// WithMinItems define o mínimo de itens informado pelo chamador.
func WithMinItems(n int) Option {
	return func(o *generateOptions) { o.minItems = &n }
}

// WithMaxItems define o máximo de itens informado pelo chamador.
func WithMaxItems(n int) Option {
	return func(o *generateOptions) { o.maxItems = &n }
}

// Generator produz coleções de dados falsos a partir de schemas.
type Generator struct {
	resolver Resolver
}

// NewGenerator cria um Generator. Um resolver nil usa o SchemaResolver padrão.
func NewGenerator(resolver Resolver) *Generator {
	if resolver == nil {
		resolver = NewSchemaResolver()
	}
	return &Generator{resolver: resolver}
}

// Generate resolve o schema e devolve sempre um slice. Schemas que não são
// arrays têm o valor resolvido embrulhado em um slice de um elemento.
//
// O schema recebido nunca é alterado: os limites efetivos são gravados em uma
// cópia rasa. Erros do resolver são devolvidos sem tratamento.
func (g *Generator) Generate(ctx context.Context, schema Schema, opts ...Option) ([]any, error) {
	var o generateOptions
	for _, opt := range opts {
		opt(&o)
	}

	resolved := make(Schema, len(schema)+2)
	for k, v := range schema {
		resolved[k] = v
	}

	if t, ok := schema["type"].(string); ok && t == "array" {
		minItems, maxItems := ItemBounds(schema, o.minItems, o.maxItems)
		resolved["minItems"] = minItems
		resolved["maxItems"] = maxItems
	}

	value, err := g.resolver.Resolve(ctx, resolved)
	if err != nil {
		return nil, err
	}

	if items, ok := value.([]any); ok {
		return items, nil
	}
	return []any{value}, nil
}

// ItemBounds calcula os limites efetivos de itens de um schema array.
//
// Valores declarados no schema vencem os do chamador, que vencem os padrões.
// O resultado é arredondado para baixo, limitado a >= 0 e, se o mínimo
// ultrapassar o máximo, o mínimo é reduzido ao máximo.
func ItemBounds(schema Schema, minParam, maxParam *int) (int, int) {
	minItems := float64(DefaultMinItems)
	if v, ok := toFloat(schema["minItems"]); ok {
		minItems = v
	} else if minParam != nil {
		minItems = float64(*minParam)
	}

	maxItems := float64(DefaultMaxItems)
	if v, ok := toFloat(schema["maxItems"]); ok {
		maxItems = v
	} else if maxParam != nil {
		maxItems = float64(*maxParam)
	}

	lo := normalizeBound(minItems)
	hi := normalizeBound(maxItems)
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func normalizeBound(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	f := math.Floor(v)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// toFloat aceita apenas valores numéricos; qualquer outro tipo conta como ausente.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
