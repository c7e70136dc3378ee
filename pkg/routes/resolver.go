package routes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raywall/fake-api-toolkit/pkg/collections"
)

// ErrModuleNotFound indica um arquivo de rota sem módulo registrado.
var ErrModuleNotFound = errors.New("routes: módulo não registrado")

// RouteFile identifica um arquivo de rota encontrado na varredura.
type RouteFile struct {
	// Root é o diretório raiz da API (absoluto).
	Root string
	// Path é o caminho relativo à raiz, sempre com "/".
	Path string
	// Abs é o caminho absoluto no sistema de arquivos.
	Abs string
}

// HandlerResolver carrega um arquivo de rota e devolve seus bindings exportados.
type HandlerResolver interface {
	Resolve(ctx context.Context, file RouteFile) (Exports, error)
}

// ResolverFunc adapta uma função para HandlerResolver.
type ResolverFunc func(ctx context.Context, file RouteFile) (Exports, error)

func (f ResolverFunc) Resolve(ctx context.Context, file RouteFile) (Exports, error) {
	return f(ctx, file)
}

// Module constrói os exports de um arquivo, fechando sobre a consulta às coleções.
type Module func(q collections.Querier) Exports

// Registry é uma tabela de registro em tempo de compilação: cada arquivo de
// rota (caminho relativo) aponta para um Module escrito em Go.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	querier collections.Querier
}

// NewRegistry cria um registro vazio. O querier é repassado aos módulos.
func NewRegistry(q collections.Querier) *Registry {
	return &Registry{
		modules: make(map[string]Module),
		querier: q,
	}
}

// Register associa um módulo ao caminho relativo do arquivo (ex: "users/_id.go").
func (r *Registry) Register(file string, m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[file] = m
}

// Resolve executa o módulo registrado para o arquivo. Um panic durante a
// construção dos exports é convertido em erro.
func (r *Registry) Resolve(_ context.Context, file RouteFile) (exports Exports, err error) {
	r.mu.RLock()
	m, ok := r.modules[file.Path]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, file.Path)
	}

	defer func() {
		if rec := recover(); rec != nil {
			exports, err = nil, fmt.Errorf("routes: panic ao avaliar módulo %s: %v", file.Path, rec)
		}
	}()
	return m(r.querier), nil
}
