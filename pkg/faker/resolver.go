package faker

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const defaultMaxDepth = 32

// SchemaResolver sintetiza valores a partir de JSON Schema usando gofakeit.
// É seguro para uso concorrente.
type SchemaResolver struct {
	mu                  sync.Mutex
	faker               *gofakeit.Faker
	alwaysFakeOptionals bool
	maxDepth            int
}

// ResolverOption configura um SchemaResolver.
type ResolverOption func(*SchemaResolver)

// WithSeed fixa a semente para gerar dados reproduzíveis. Zero usa semente aleatória.
func WithSeed(seed uint64) ResolverOption {
	return func(r *SchemaResolver) { r.faker = gofakeit.New(seed) }
}

// WithAlwaysFakeOptionals gera também todas as propriedades opcionais.
func WithAlwaysFakeOptionals() ResolverOption {
	return func(r *SchemaResolver) { r.alwaysFakeOptionals = true }
}

// WithMaxDepth altera o limite de aninhamento/recursão.
func WithMaxDepth(depth int) ResolverOption {
	return func(r *SchemaResolver) { r.maxDepth = depth }
}

// NewSchemaResolver cria o resolver padrão.
func NewSchemaResolver(opts ...ResolverOption) *SchemaResolver {
	r := &SchemaResolver{
		faker:    gofakeit.New(0),
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve gera um valor para o schema. Referências são resolvidas contra o
// próprio schema recebido.
func (r *SchemaResolver) Resolve(ctx context.Context, schema Schema) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(ctx, schema, schema, 0)
}

func (r *SchemaResolver) resolve(ctx context.Context, root, s Schema, depth int) (any, error) {
	if depth > r.maxDepth {
		return nil, ErrMaxDepth
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ref, ok := s["$ref"].(string); ok {
		target, err := lookupRef(root, ref)
		if err != nil {
			return nil, err
		}
		return r.resolve(ctx, root, target, depth+1)
	}

	if v, ok := s["const"]; ok {
		return v, nil
	}
	if enum, ok := s["enum"].([]any); ok && len(enum) > 0 {
		return enum[r.faker.IntRange(0, len(enum)-1)], nil
	}

	if all, ok := s["allOf"].([]any); ok && len(all) > 0 {
		merged, err := mergeAllOf(root, s, all)
		if err != nil {
			return nil, err
		}
		return r.resolve(ctx, root, merged, depth+1)
	}

	for _, key := range []string{"oneOf", "anyOf"} {
		branches, ok := s[key].([]any)
		if !ok || len(branches) == 0 {
			continue
		}
		branch, ok := asSchema(branches[r.faker.IntRange(0, len(branches)-1)])
		if !ok {
			return nil, fmt.Errorf("faker: ramo inválido em %s", key)
		}
		combined := make(Schema, len(s)+len(branch))
		for k, v := range s {
			if k != key {
				combined[k] = v
			}
		}
		for k, v := range branch {
			combined[k] = v
		}
		return r.resolve(ctx, root, combined, depth+1)
	}

	switch typ := r.schemaType(s); typ {
	case "", "null":
		return nil, nil
	case "boolean":
		return r.faker.Bool(), nil
	case "integer":
		return r.integer(s), nil
	case "number":
		return r.number(s), nil
	case "string":
		return r.str(s)
	case "object":
		return r.object(ctx, root, s, depth)
	case "array":
		return r.array(ctx, root, s, depth)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}
}

func (r *SchemaResolver) schemaType(s Schema) string {
	switch t := s["type"].(type) {
	case string:
		return t
	case []any:
		var types []string
		for _, v := range t {
			if name, ok := v.(string); ok {
				types = append(types, name)
			}
		}
		if len(types) > 0 {
			return types[r.faker.IntRange(0, len(types)-1)]
		}
	}
	if _, ok := s["properties"]; ok {
		return "object"
	}
	if _, ok := s["items"]; ok {
		return "array"
	}
	return ""
}

func (r *SchemaResolver) object(ctx context.Context, root, s Schema, depth int) (any, error) {
	props, _ := asSchema(s["properties"])

	required := make(map[string]bool)
	if list, ok := s["required"].([]any); ok {
		for _, v := range list {
			if name, ok := v.(string); ok {
				required[name] = true
			}
		}
	}

	// Ordem estável para que a semente produza sempre o mesmo resultado.
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(keys))
	for _, key := range keys {
		if !required[key] && !r.alwaysFakeOptionals && !r.faker.Bool() {
			continue
		}
		sub, ok := asSchema(props[key])
		if !ok {
			continue
		}
		v, err := r.resolve(ctx, root, sub, depth+1)
		if err != nil {
			return nil, fmt.Errorf("propriedade %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func (r *SchemaResolver) array(ctx context.Context, root, s Schema, depth int) (any, error) {
	if tuple, ok := s["items"].([]any); ok {
		out := make([]any, 0, len(tuple))
		for i, item := range tuple {
			sub, ok := asSchema(item)
			if !ok {
				return nil, fmt.Errorf("faker: item %d da tupla inválido", i)
			}
			v, err := r.resolve(ctx, root, sub, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	lo := intField(s, "minItems", 0)
	hi := intField(s, "maxItems", lo+5)
	if hi < lo {
		hi = lo
	}
	n := r.faker.IntRange(lo, hi)

	itemSchema, _ := asSchema(s["items"])
	unique, _ := s["uniqueItems"].(bool)

	out := make([]any, 0, n)
	for len(out) < n {
		var (
			v   any
			err error
		)
		for attempt := 0; attempt < 10; attempt++ {
			v, err = r.resolve(ctx, root, itemSchema, depth+1)
			if err != nil {
				return nil, err
			}
			if !unique || !containsValue(out, v) {
				break
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *SchemaResolver) integer(s Schema) int {
	lo, hi := numericRange(s)
	first := int(math.Ceil(lo))
	last := int(math.Floor(hi))
	if exclusive(s, "exclusiveMinimum", "minimum") {
		first++
	}
	if exclusive(s, "exclusiveMaximum", "maximum") {
		last--
	}
	if last < first {
		last = first
	}

	if m, ok := toFloat(s["multipleOf"]); ok && m >= 1 {
		step := int(m)
		from := int(math.Ceil(float64(first) / float64(step)))
		to := int(math.Floor(float64(last) / float64(step)))
		if to >= from {
			return r.faker.IntRange(from, to) * step
		}
	}
	return r.faker.IntRange(first, last)
}

func (r *SchemaResolver) number(s Schema) float64 {
	lo, hi := numericRange(s)
	if m, ok := toFloat(s["multipleOf"]); ok && m > 0 {
		first := int(math.Ceil(lo / m))
		last := int(math.Floor(hi / m))
		if last >= first {
			return float64(r.faker.IntRange(first, last)) * m
		}
	}
	v := math.Round(r.faker.Float64Range(lo, hi)*100) / 100
	if v < lo || v > hi {
		v = lo
	}
	if (v == lo && exclusive(s, "exclusiveMinimum", "minimum")) || (v == hi && exclusive(s, "exclusiveMaximum", "maximum")) {
		v = (lo + hi) / 2
	}
	return v
}

// numericRange combina minimum/maximum e as formas numéricas de exclusiveMinimum/Maximum.
func numericRange(s Schema) (float64, float64) {
	lo, hasLo := toFloat(s["minimum"])
	if v, ok := toFloat(s["exclusiveMinimum"]); ok {
		lo, hasLo = v, true
	}
	hi, hasHi := toFloat(s["maximum"])
	if v, ok := toFloat(s["exclusiveMaximum"]); ok {
		hi, hasHi = v, true
	}

	switch {
	case !hasLo && !hasHi:
		lo, hi = 0, 1000
	case !hasLo:
		lo = hi - 1000
	case !hasHi:
		hi = lo + 1000
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// exclusive cobre tanto o formato numérico (draft 6+) quanto o booleano (draft 4).
func exclusive(s Schema, key, boundKey string) bool {
	switch v := s[key].(type) {
	case bool:
		_, ok := s[boundKey]
		return v && ok
	default:
		_, ok := toFloat(v)
		return ok
	}
}

func (r *SchemaResolver) str(s Schema) (any, error) {
	if kw, ok := s["faker"]; ok {
		return r.fakerKeyword(kw)
	}

	if format, ok := s["format"].(string); ok {
		switch format {
		case "email":
			return r.faker.Email(), nil
		case "uuid":
			return r.faker.UUID(), nil
		case "date-time":
			return r.faker.Date().UTC().Format(time.RFC3339), nil
		case "date":
			return r.faker.Date().Format("2006-01-02"), nil
		case "time":
			return r.faker.Date().Format("15:04:05"), nil
		case "uri", "url":
			return r.faker.URL(), nil
		case "hostname":
			return r.faker.DomainName(), nil
		case "ipv4":
			return r.faker.IPv4Address(), nil
		case "ipv6":
			return r.faker.IPv6Address(), nil
		}
	}

	if pattern, ok := s["pattern"].(string); ok && pattern != "" {
		return r.faker.Regex(pattern), nil
	}

	_, hasMin := s["minLength"]
	_, hasMax := s["maxLength"]
	if hasMin || hasMax {
		lo := intField(s, "minLength", 1)
		hi := intField(s, "maxLength", lo+20)
		if hi < lo {
			hi = lo
		}
		return r.faker.LetterN(uint(r.faker.IntRange(lo, hi))), nil
	}

	words := make([]string, r.faker.IntRange(1, 3))
	for i := range words {
		words[i] = r.faker.Word()
	}
	return strings.Join(words, " "), nil
}

// fakerKeyword atende à extensão "faker" do json-schema-faker, tanto na forma
// "name.firstName" quanto {"name.firstName": [...]}.
func (r *SchemaResolver) fakerKeyword(kw any) (any, error) {
	var name string
	switch v := kw.(type) {
	case string:
		name = v
	case map[string]any:
		for k := range v {
			name = k
		}
	}

	switch name {
	case "name.firstName", "person.firstName":
		return r.faker.FirstName(), nil
	case "name.lastName", "person.lastName":
		return r.faker.LastName(), nil
	case "name.fullName", "person.fullName", "name.findName":
		return r.faker.Name(), nil
	case "name.jobTitle", "person.jobTitle":
		return r.faker.JobTitle(), nil
	case "internet.email":
		return r.faker.Email(), nil
	case "internet.userName", "internet.username":
		return r.faker.Username(), nil
	case "internet.url":
		return r.faker.URL(), nil
	case "internet.domainName":
		return r.faker.DomainName(), nil
	case "internet.ip", "internet.ipv4":
		return r.faker.IPv4Address(), nil
	case "internet.ipv6":
		return r.faker.IPv6Address(), nil
	case "phone.number", "phone.phoneNumber":
		return r.faker.Phone(), nil
	case "address.city", "location.city":
		return r.faker.City(), nil
	case "address.country", "location.country":
		return r.faker.Country(), nil
	case "address.streetAddress", "location.street":
		return r.faker.Street(), nil
	case "address.zipCode", "location.zipCode":
		return r.faker.Zip(), nil
	case "company.name", "company.companyName":
		return r.faker.Company(), nil
	case "commerce.productName":
		return r.faker.ProductName(), nil
	case "commerce.price":
		return strconv.FormatFloat(r.faker.Price(1, 1000), 'f', 2, 64), nil
	case "lorem.word":
		return r.faker.Word(), nil
	case "string.uuid", "datatype.uuid", "random.uuid":
		return r.faker.UUID(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFaker, name)
	}
}

// lookupRef resolve ponteiros JSON locais (#/definitions/x, #/$defs/y).
func lookupRef(root Schema, ref string) (Schema, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvableRef, ref)
	}
	pointer := strings.TrimPrefix(ref, "#")
	if pointer == "" {
		return root, nil
	}

	var current any = map[string]any(root)
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnresolvableRef, ref)
			}
			current = next
		case Schema:
			next, ok := node[token]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnresolvableRef, ref)
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("%w: %q", ErrUnresolvableRef, ref)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnresolvableRef, ref)
		}
	}

	target, ok := asSchema(current)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvableRef, ref)
	}
	return target, nil
}

func mergeAllOf(root, s Schema, all []any) (Schema, error) {
	merged := make(Schema, len(s))
	for k, v := range s {
		if k != "allOf" {
			merged[k] = v
		}
	}

	props := make(map[string]any)
	if base, ok := asSchema(s["properties"]); ok {
		for k, v := range base {
			props[k] = v
		}
	}
	required, _ := s["required"].([]any)

	for i, raw := range all {
		sub, ok := asSchema(raw)
		if !ok {
			return nil, fmt.Errorf("faker: allOf[%d] inválido", i)
		}
		if ref, ok := sub["$ref"].(string); ok {
			target, err := lookupRef(root, ref)
			if err != nil {
				return nil, err
			}
			sub = target
		}
		for k, v := range sub {
			switch k {
			case "properties":
				if p, ok := asSchema(v); ok {
					for name, prop := range p {
						props[name] = prop
					}
				}
			case "required":
				if list, ok := v.([]any); ok {
					required = append(required, list...)
				}
			default:
				merged[k] = v
			}
		}
	}

	if len(props) > 0 {
		merged["properties"] = map[string]any(props)
	}
	if len(required) > 0 {
		merged["required"] = required
	}
	return merged, nil
}

func asSchema(v any) (Schema, bool) {
	switch s := v.(type) {
	case Schema:
		return s, true
	case map[string]any:
		return Schema(s), true
	default:
		return nil, false
	}
}

func intField(s Schema, key string, fallback int) int {
	v, ok := toFloat(s[key])
	if !ok {
		return fallback
	}
	return normalizeBound(v)
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}
