package routes

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// RegisterFunc registra um handler para um template de rota.
type RegisterFunc func(route string, h http.Handler)

// Server é qualquer alvo capaz de registrar rotas. Route recebe o verbo em
// minúsculas ("get", "post", ..., "all") e informa se o verbo é suportado.
type Server interface {
	Route(verb string) (RegisterFunc, bool)
}

// AddRoutes registra todas as rotas literais e, em seguida, as parametrizadas,
// preservando a ordem de cada lista. Verbos não suportados pelo servidor são
// ignorados. Devolve o número de rotas registradas.
func AddRoutes(server Server, set RouteSet, logger zerolog.Logger) int {
	registered := 0
	for _, group := range [][]RouteDefinition{set.Literals, set.Params} {
		for _, def := range group {
			register, ok := server.Route(strings.ToLower(def.Method))
			if !ok {
				continue
			}
			register(def.Route, def.Handler)
			logger.Info().Msgf("Mapped: %s -> %s", strings.ToUpper(def.Method), def.Route)
			registered++
		}
	}
	return registered
}

var muxMethods = map[string]string{
	"get":     http.MethodGet,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
	"patch":   http.MethodPatch,
	"delete":  http.MethodDelete,
	"options": http.MethodOptions,
	"head":    http.MethodHead,
}

var colonParam = regexp.MustCompile(`:([^/]+)`)

// MuxServer adapta um *mux.Router para a interface Server. O gorilla/mux
// testa as rotas na ordem de registro, o que mantém a prioridade das literais.
type MuxServer struct {
	router *mux.Router
}

// NewMuxServer embrulha o router informado (ou cria um novo quando nil).
func NewMuxServer(router *mux.Router) *MuxServer {
	if router == nil {
		router = mux.NewRouter()
	}
	return &MuxServer{router: router}
}

// Router devolve o router subjacente.
func (s *MuxServer) Router() *mux.Router {
	return s.router
}

func (s *MuxServer) Route(verb string) (RegisterFunc, bool) {
	if verb == "all" {
		return func(route string, h http.Handler) {
			s.router.Handle(MuxTemplate(route), h)
		}, true
	}

	method, ok := muxMethods[verb]
	if !ok {
		return nil, false
	}
	return func(route string, h http.Handler) {
		s.router.Handle(MuxTemplate(route), h).Methods(method)
	}, true
}

// MuxTemplate converte parâmetros ":id" para a sintaxe "{id}" do gorilla/mux.
func MuxTemplate(route string) string {
	return colonParam.ReplaceAllString(route, "{$1}")
}
