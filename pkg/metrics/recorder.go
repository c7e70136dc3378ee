package metrics

import (
	"fmt"
	"strconv"
	"time"
)

// Recorder traduz eventos do servidor em chamadas ao Provider.
type Recorder struct {
	provider Provider
}

// NewRecorder cria um Recorder. Um provider nil descarta as métricas.
func NewRecorder(p Provider) *Recorder {
	return &Recorder{provider: p}
}

// Emit envia um valor respeitando o tipo da definição.
func (r *Recorder) Emit(def MetricDefinition, value float64, tags []string) error {
	if r == nil || r.provider == nil {
		return nil
	}
	switch def.Type {
	case TypeCount:
		return r.provider.Count(def.Name, value, tags)
	case TypeGauge:
		return r.provider.Gauge(def.Name, value, tags)
	case TypeHistogram:
		return r.provider.Histogram(def.Name, value, tags)
	}
	return fmt.Errorf("tipo de métrica não suportado: %s", def.Type)
}

// Request registra uma requisição atendida. route é o template registrado
// (ex: /users/{id}), não o caminho concreto, para manter a cardinalidade baixa.
func (r *Recorder) Request(method, route string, status int, latency time.Duration) {
	tags := []string{
		"method:" + method,
		"route:" + route,
		"status:" + strconv.Itoa(status),
	}
	_ = r.Emit(RequestCount, 1, tags)
	_ = r.Emit(RequestLatency, float64(latency.Milliseconds()), tags)
}

// Collection registra o tamanho de uma coleção gerada.
func (r *Recorder) Collection(name string, items int) {
	_ = r.Emit(CollectionItems, float64(items), []string{"collection:" + name})
}

// Routes registra o total de rotas mapeadas.
func (r *Recorder) Routes(total int) {
	_ = r.Emit(RoutesMapped, float64(total), nil)
}
