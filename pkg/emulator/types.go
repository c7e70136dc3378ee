package emulator

// ParamMapping mapeia param da req para campo nos dados. MapsTo aceita
// caminhos aninhados ("address.city", "tags[0]").
type ParamMapping struct {
	Name   string `json:"name" yaml:"name"`
	MapsTo string `json:"maps_to" yaml:"maps_to"`
}

// Response para status, headers e body
type Response struct {
	Status  int               `json:"status" yaml:"status"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers"`
	Body    interface{}       `json:"body,omitempty" yaml:"body"`
}

// RouteConfig descreve a resposta de um verbo dentro de um arquivo de rota.
type RouteConfig struct {
	Response          *Response      `json:"response,omitempty" yaml:"response"`     // Para respostas estáticas
	Collection        string         `json:"collection,omitempty" yaml:"collection"` // Coleção gerada usada como dataset
	Data              []interface{}  `json:"data,omitempty" yaml:"data"`             // Dataset inline
	QueryParams       []ParamMapping `json:"query_params,omitempty" yaml:"query_params"`
	PathParams        []ParamMapping `json:"path_params,omitempty" yaml:"path_params"`
	ResponseOnMatch   *Response      `json:"response_on_match,omitempty" yaml:"response_on_match"`
	ResponseOnNoMatch *Response      `json:"response_on_no_match,omitempty" yaml:"response_on_no_match"`
	Delay             string         `json:"delay,omitempty" yaml:"delay"` // Ex: "150ms"
}

// isStatic indica uma rota sem dataset e sem parâmetros.
func (rc RouteConfig) isStatic() bool {
	return rc.Response != nil && rc.Collection == "" && len(rc.Data) == 0 &&
		len(rc.QueryParams) == 0 && len(rc.PathParams) == 0
}

// FileConfig é o conteúdo decodificado de um arquivo de rota.
type FileConfig struct {
	// Routes guarda as entradas que são objetos, indexadas pelo nome original.
	Routes map[string]RouteConfig
	// Values guarda as demais chaves (strings, números, listas).
	Values map[string]interface{}
}
