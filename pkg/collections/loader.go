// Package collections carrega os schemas de coleções, gera os dados falsos e
// mantém o resultado em cache durante toda a vida do processo.
package collections

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/raywall/fake-api-toolkit/pkg/faker"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const schemaExt = ".json"

// Data mapeia o nome da coleção (arquivo sem extensão) para os dados gerados.
type Data map[string][]any

// Querier é a interface de consulta entregue aos handlers de rota.
type Querier interface {
	Collection(name string) ([]any, bool)
	All() Data
}

// Generator é o contrato mínimo esperado do gerador de dados.
type Generator interface {
	Generate(ctx context.Context, schema faker.Schema, opts ...faker.Option) ([]any, error)
}

// Loader gera as coleções uma única vez e devolve sempre o mesmo mapa
// até que Reset seja chamado.
type Loader struct {
	generator Generator
	fsys      fs.FS
	logger    zerolog.Logger

	mu       sync.RWMutex
	data     Data
	group    singleflight.Group
	reloadMu sync.Mutex
}

// Option configura um Loader.
type Option func(*Loader)

// WithFS substitui o sistema de arquivos (por padrão, o diretório de trabalho).
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) { l.fsys = fsys }
}

// WithLogger define o logger usado pelo Loader.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader cria um Loader sem dados carregados.
func NewLoader(generator Generator, opts ...Option) *Loader {
	if generator == nil {
		generator = faker.NewGenerator(nil)
	}
	l := &Loader{
		generator: generator,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load lê <apiDir>/<collectionsDir>, gera uma coleção por arquivo .json e
// guarda o resultado. Chamadas seguintes devolvem o cache sem tocar no disco.
//
// Falhas nunca são propagadas: o erro é registrado e o cache passa a ser um
// mapa vazio. Chamadas concorrentes antes da primeira carga terminar aguardam
// a mesma execução.
func (l *Loader) Load(ctx context.Context, apiDir, collectionsDir string) Data {
	if data, ok := l.cached(); ok {
		l.logger.Warn().Msg("As coleções já foram carregadas. Ignorando a nova carga.")
		return data
	}

	v, _, _ := l.group.Do("load", func() (interface{}, error) {
		if data, ok := l.cached(); ok {
			return data, nil
		}

		data, err := l.load(ctx, apiDir, collectionsDir)
		if err != nil {
			l.logger.Error().Err(err).Msg("Erro ao carregar coleções")
			data = Data{}
		} else {
			l.logger.Info().Int("collections", len(data)).Msg("Coleções carregadas com sucesso.")
		}

		// Um Reload concluído durante a carga tem precedência.
		l.mu.Lock()
		if l.data != nil {
			data = l.data
		} else {
			l.data = data
		}
		l.mu.Unlock()
		return data, nil
	})

	data, ok := v.(Data)
	if !ok {
		return Data{}
	}
	return data
}

func (l *Loader) load(ctx context.Context, apiDir, collectionsDir string) (Data, error) {
	fsys, dir := l.resolveFS(apiDir, collectionsDir)
	l.logger.Info().Str("dir", dir).Msg("Lendo o diretório de coleções")

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler diretório %s: %w", dir, err)
	}

	loaded := make(Data)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), schemaExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), schemaExt)

		raw, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("erro ao ler schema %s: %w", entry.Name(), err)
		}

		var schema faker.Schema
		if err := json.Unmarshal(raw, &schema); err != nil {
			return nil, fmt.Errorf("schema %s não é um JSON válido: %w", entry.Name(), err)
		}

		l.logger.Info().Str("collection", name).Msg("Gerando dados para a coleção")
		items, err := l.generator.Generate(ctx, schema)
		if err != nil {
			return nil, fmt.Errorf("erro ao gerar coleção %s: %w", name, err)
		}
		loaded[name] = items
	}
	return loaded, nil
}

// resolveFS escolhe a raiz do sistema de arquivos e o caminho (sempre com "/")
// do diretório de coleções dentro dela.
func (l *Loader) resolveFS(apiDir, collectionsDir string) (fs.FS, string) {
	if l.fsys != nil {
		return l.fsys, cleanFSPath(path.Join(filepath.ToSlash(apiDir), filepath.ToSlash(collectionsDir)))
	}
	root, err := filepath.Abs(apiDir)
	if err != nil {
		return os.DirFS("."), cleanFSPath(path.Join(filepath.ToSlash(apiDir), filepath.ToSlash(collectionsDir)))
	}
	// io/fs não aceita "..", então a raiz é o próprio diretório da API.
	return os.DirFS(root), cleanFSPath(filepath.ToSlash(collectionsDir))
}

func cleanFSPath(p string) string {
	p = strings.TrimPrefix(path.Clean(p), "/")
	if p == "" {
		return "."
	}
	return p
}

func (l *Loader) cached() (Data, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data, l.data != nil
}

// Reload gera as coleções novamente e troca o cache de uma vez. Em caso de
// falha o cache anterior é mantido e o erro é devolvido.
//
// Reloads são serializados entre si e nunca reaproveitam uma carga em
// andamento: cada chamada lê o disco de novo.
func (l *Loader) Reload(ctx context.Context, apiDir, collectionsDir string) (Data, error) {
	l.reloadMu.Lock()
	defer l.reloadMu.Unlock()

	data, err := l.load(ctx, apiDir, collectionsDir)
	if err != nil {
		l.logger.Error().Err(err).Msg("Erro ao regenerar coleções")
		return nil, err
	}

	l.mu.Lock()
	l.data = data
	l.mu.Unlock()
	l.logger.Info().Int("collections", len(data)).Msg("Coleções regeneradas.")
	return data, nil
}

// Reset volta o cache ao estado não inicializado.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.data = nil
	l.mu.Unlock()
}

// Collection devolve uma coleção carregada pelo nome.
func (l *Loader) Collection(name string) ([]any, bool) {
	data, _ := l.cached()
	items, ok := data[name]
	return items, ok
}

// All devolve todas as coleções carregadas (nil antes da primeira carga).
func (l *Loader) All() Data {
	data, _ := l.cached()
	return data
}
