package emulator

import (
	"context"

	"github.com/raywall/fake-api-toolkit/pkg/collections"
	"github.com/raywall/fake-api-toolkit/pkg/routes"
)

// Resolver implementa routes.HandlerResolver para arquivos de rota declarativos.
type Resolver struct {
	querier collections.Querier
}

// NewResolver cria um Resolver cujos handlers consultam q.
func NewResolver(q collections.Querier) *Resolver {
	return &Resolver{querier: q}
}

// Resolve lê o arquivo e devolve um handler por entrada do tipo objeto e os
// demais valores como bindings comuns.
func (r *Resolver) Resolve(_ context.Context, file routes.RouteFile) (routes.Exports, error) {
	cfg, err := LoadFile(file.Abs)
	if err != nil {
		return nil, err
	}

	exports := make(routes.Exports, len(cfg.Routes)+len(cfg.Values))
	for name, value := range cfg.Values {
		exports[name] = value
	}
	for name, rc := range cfg.Routes {
		exports[name] = NewHandler(rc, r.querier)
	}
	return exports, nil
}
