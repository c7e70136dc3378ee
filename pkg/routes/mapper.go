// Package routes traduz uma árvore de arquivos de rota em definições HTTP,
// separando rotas literais de rotas com parâmetros para garantir a ordem de
// prioridade no registro.
package routes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultExcludeDir é o subdiretório reservado às coleções, nunca mapeado como rota.
const DefaultExcludeDir = "collections"

// Mapper descobre arquivos de rota e carrega seus handlers.
type Mapper struct {
	resolver   HandlerResolver
	logger     zerolog.Logger
	excludeDir string
}

// MapperOption configura um Mapper.
type MapperOption func(*Mapper)

// WithLogger define o logger do Mapper.
func WithLogger(logger zerolog.Logger) MapperOption {
	return func(m *Mapper) { m.logger = logger }
}

// WithExcludeDir troca o subdiretório ignorado na varredura.
func WithExcludeDir(dir string) MapperOption {
	return func(m *Mapper) { m.excludeDir = dir }
}

// NewMapper cria um Mapper que usa o resolver para carregar cada arquivo.
func NewMapper(resolver HandlerResolver, opts ...MapperOption) *Mapper {
	m := &Mapper{
		resolver:   resolver,
		logger:     zerolog.Nop(),
		excludeDir: DefaultExcludeDir,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map varre apiDir (relativo ao diretório de trabalho) atrás de arquivos
// *.<ext> e devolve as definições separadas em literais e parametrizadas.
//
// Um arquivo que falha ao carregar é registrado no log e ignorado; a
// varredura continua com os demais.
func (m *Mapper) Map(ctx context.Context, apiDir, wildcardChar, ext string) (RouteSet, error) {
	var set RouteSet

	root, err := filepath.Abs(apiDir)
	if err != nil {
		return set, fmt.Errorf("erro ao resolver diretório da API %s: %w", apiDir, err)
	}

	files, err := m.discover(root, ext)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn().Str("dir", root).Msg("Diretório da API não encontrado. Nenhuma rota mapeada.")
			return set, nil
		}
		return set, err
	}

	for _, file := range files {
		route, parameterized := RouteTemplate(file, wildcardChar, ext)

		exports, err := m.resolver.Resolve(ctx, RouteFile{
			Root: root,
			Path: file,
			Abs:  filepath.Join(root, filepath.FromSlash(file)),
		})
		if err != nil {
			m.logger.Error().Err(err).Str("file", file).Msg("Erro ao carregar o arquivo de rota")
			continue
		}

		for _, def := range definitions(route, file, exports) {
			if parameterized {
				set.Params = append(set.Params, def)
			} else {
				set.Literals = append(set.Literals, def)
			}
		}
	}

	m.logger.Debug().
		Int("literals", len(set.Literals)).
		Int("params", len(set.Params)).
		Msg("Mapeamento de rotas concluído")
	return set, nil
}

// discover devolve os arquivos *.<ext> sob root, relativos e com "/", na
// ordem de enumeração do WalkDir.
func (m *Mapper) discover(root, ext string) ([]string, error) {
	suffix := "." + strings.TrimPrefix(ext, ".")

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if m.excludeDir != "" && rel == m.excludeDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), suffix) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("erro ao varrer diretório %s: %w", root, err)
	}
	return files, nil
}

// RouteTemplate converte o caminho relativo de um arquivo em template de rota.
//
// O prefixo "/" é adicionado, a extensão removida e cada token iniciado pelo
// caractere curinga vira um parâmetro ("_id" -> ":id"). A rota é
// parametrizada se o caminho original continha o curinga. Arquivos index
// representam o próprio diretório.
func RouteTemplate(file, wildcardChar, ext string) (string, bool) {
	ext = strings.TrimPrefix(ext, ".")
	route := "/" + strings.TrimSuffix(file, "."+ext)

	parameterized := wildcardChar != "" && strings.Contains(route, wildcardChar)
	if parameterized {
		pattern := regexp.MustCompile(regexp.QuoteMeta(wildcardChar) + `([^/]+)`)
		route = pattern.ReplaceAllString(route, ":$1")
	}

	if path.Base(file) == "index."+ext {
		route = strings.TrimSuffix(route, "/index")
		if route == "" {
			route = "/"
		}
	}
	return route, parameterized
}

type export struct {
	name  string
	value any
}

// definitions gera uma definição por binding cujo nome é um verbo
// reconhecido e cujo valor é um handler, em ordem canônica de verbos.
func definitions(route, file string, exports Exports) []RouteDefinition {
	var candidates []export
	for name, value := range flatten(exports) {
		if !IsMethod(name) {
			continue
		}
		candidates = append(candidates, export{name: name, value: value})
	}

	sort.Slice(candidates, func(i, j int) bool {
		ri := methodRank[strings.ToUpper(candidates[i].name)]
		rj := methodRank[strings.ToUpper(candidates[j].name)]
		if ri != rj {
			return ri < rj
		}
		return candidates[i].name < candidates[j].name
	})

	defs := make([]RouteDefinition, 0, len(candidates))
	for _, c := range candidates {
		handler, ok := asHandler(c.value)
		if !ok {
			continue
		}
		defs = append(defs, RouteDefinition{
			Route:   route,
			Method:  strings.ToUpper(c.name),
			Handler: handler,
			File:    file,
		})
	}
	return defs
}

// flatten combina um export "default" (objeto de handlers) com os exports
// nomeados; em caso de conflito o export nomeado vence.
func flatten(exports Exports) map[string]any {
	out := make(map[string]any, len(exports))
	for name, value := range exports {
		if !strings.EqualFold(name, "default") {
			continue
		}
		switch d := value.(type) {
		case Exports:
			for k, v := range d {
				out[k] = v
			}
		case map[string]any:
			for k, v := range d {
				out[k] = v
			}
		}
	}
	for name, value := range exports {
		if !strings.EqualFold(name, "default") {
			out[name] = value
		}
	}
	return out
}
