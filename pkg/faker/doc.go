/*
Package faker gera dados falsos a partir de fragmentos de JSON Schema.

O pacote é dividido em duas partes:
  - Generator: calcula os limites efetivos de itens (minItems/maxItems) de um
    schema do tipo array e delega a síntese ao Resolver, garantindo que o
    retorno seja sempre um slice.
  - SchemaResolver: implementação padrão do Resolver, baseada em gofakeit,
    com suporte a $ref locais, enum, const, allOf/anyOf/oneOf, formatos de
    string e a palavra-chave "faker" do json-schema-faker.

Precedência dos limites de itens (somente schemas do tipo array):
 1. minItems/maxItems declarados no schema;
 2. valores informados pelo chamador (WithMinItems/WithMaxItems);
 3. padrões fixos: mínimo 0, máximo 50.

Exemplo:

	gen := faker.NewGenerator(faker.NewSchemaResolver(faker.WithSeed(42)))
	users, err := gen.Generate(ctx, faker.Schema{
		"type":  "array",
		"items": map[string]any{"type": "object", "properties": map[string]any{"id": map[string]any{"type": "string", "format": "uuid"}}},
	}, faker.WithMaxItems(10))
*/
package faker
