// Package jsonpath navega em valores JSON decodificados (map[string]any e
// []any) usando caminhos no formato "campo.sub[0].nome".
package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound indica que o caminho não existe no valor.
var ErrNotFound = errors.New("caminho não encontrado")

type segment struct {
	field   string
	isIndex bool
	index   int
}

// Lookup devolve o valor apontado por path dentro de data. Exemplos:
//   - "nome"                 -> campo direto
//   - "endereco.cidade"      -> objetos aninhados
//   - "tags[0]"              -> elemento de lista
//   - "pedidos[1].total"     -> campo de um elemento
//
// Um caminho vazio devolve o próprio data.
func Lookup(data any, path string) (any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return data, nil
	}

	segments, err := parse(path)
	if err != nil {
		return nil, err
	}

	current := data
	for i, seg := range segments {
		if seg.isIndex {
			list, ok := current.([]any)
			if !ok {
				return nil, fmt.Errorf("esperado array em '%s', encontrado %T", render(segments[:i]), current)
			}
			if seg.index < 0 || seg.index >= len(list) {
				return nil, fmt.Errorf("%w: índice %d fora do intervalo em '%s'", ErrNotFound, seg.index, render(segments[:i+1]))
			}
			current = list[seg.index]
			continue
		}

		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("esperado objeto em '%s', encontrado %T", render(segments[:i]), current)
		}
		value, exists := obj[seg.field]
		if !exists {
			return nil, fmt.Errorf("%w: '%s'", ErrNotFound, render(segments[:i+1]))
		}
		current = value
	}
	return current, nil
}

// Exists informa se o caminho pode ser resolvido em data.
func Exists(data any, path string) bool {
	_, err := Lookup(data, path)
	return err == nil
}

// IsNested informa se o caminho navega além de um campo simples.
func IsNested(path string) bool {
	return strings.ContainsAny(path, ".[")
}

func parse(path string) ([]segment, error) {
	var segments []segment
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		for part != "" {
			open := strings.Index(part, "[")
			if open == -1 {
				segments = append(segments, segment{field: part})
				break
			}
			if open > 0 {
				segments = append(segments, segment{field: part[:open]})
			}
			end := strings.Index(part[open:], "]")
			if end == -1 {
				return nil, fmt.Errorf("colchete não fechado em '%s'", path)
			}
			end += open
			idx, err := strconv.Atoi(part[open+1 : end])
			if err != nil {
				return nil, fmt.Errorf("índice inválido '%s' em '%s'", part[open+1:end], path)
			}
			segments = append(segments, segment{isIndex: true, index: idx})
			part = part[end+1:]
		}
	}
	return segments, nil
}

func render(segments []segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if seg.isIndex {
			fmt.Fprintf(&b, "[%d]", seg.index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.field)
	}
	return b.String()
}
