package routes

import (
	"net/http"
	"strings"
)

// Métodos HTTP reconhecidos nos bindings exportados por um arquivo de rota.
// ALL registra o handler para qualquer verbo.
const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
	MethodHead    = "HEAD"
	MethodAll     = "ALL"
)

// Methods lista os verbos reconhecidos na ordem canônica de emissão.
var Methods = []string{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions, MethodHead, MethodAll}

var methodRank = func() map[string]int {
	m := make(map[string]int, len(Methods))
	for i, method := range Methods {
		m[method] = i
	}
	return m
}()

// IsMethod informa se o nome (em qualquer caixa) é um verbo reconhecido.
func IsMethod(name string) bool {
	_, ok := methodRank[strings.ToUpper(name)]
	return ok
}

// RouteDefinition associa um template de rota e um verbo a um handler.
type RouteDefinition struct {
	Route   string       `json:"route"`
	Method  string       `json:"method"`
	Handler http.Handler `json:"-"`
	// File é o caminho relativo do arquivo de origem, com "/".
	File string `json:"file"`
}

// RouteSet é o resultado do mapeamento. Literals devem ser registradas
// antes de Params para que rotas literais nunca sejam sombreadas.
type RouteSet struct {
	Literals []RouteDefinition `json:"literals"`
	Params   []RouteDefinition `json:"params"`
}

// Len devolve o total de definições.
func (s RouteSet) Len() int {
	return len(s.Literals) + len(s.Params)
}

// Ordered devolve as definições na ordem de registro: literais e depois parâmetros.
func (s RouteSet) Ordered() []RouteDefinition {
	out := make([]RouteDefinition, 0, s.Len())
	out = append(out, s.Literals...)
	return append(out, s.Params...)
}

// Exports representa os bindings exportados por um arquivo de rota. Valores
// que não são handlers são ignorados pelo Mapper.
type Exports map[string]any

// asHandler converte um binding exportado em http.Handler quando ele é "chamável".
func asHandler(v any) (http.Handler, bool) {
	switch h := v.(type) {
	case http.HandlerFunc:
		return h, h != nil
	case func(http.ResponseWriter, *http.Request):
		return http.HandlerFunc(h), h != nil
	case http.Handler:
		return h, h != nil
	default:
		return nil, false
	}
}
