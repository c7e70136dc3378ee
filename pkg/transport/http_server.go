package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/raywall/fake-api-toolkit/pkg/metrics"
	"github.com/rs/zerolog"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type ctxKey string

// ContextKeyCorrID guarda o correlation id no contexto da requisição.
const ContextKeyCorrID ctxKey = "correlation_id"

// DefaultShutdownTimeout limita a espera pelas requisições em andamento.
const DefaultShutdownTimeout = 10 * time.Second

// CorrelationID devolve o id associado ao contexto, ou "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyCorrID).(string)
	return id
}

// Server é o servidor HTTP do fake-api.
type Server struct {
	handler         http.Handler
	logger          zerolog.Logger
	shutdownTimeout time.Duration
}

// NewServer cria o servidor para o handler informado.
func NewServer(handler http.Handler, logger zerolog.Logger) *Server {
	return &Server{
		handler:         handler,
		logger:          logger,
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// ListenAndServe escuta na porta e serve até ctx ser cancelado.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("falha ao escutar na porta %d: %w", port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve atende conexões de ln. Quando ctx é cancelado o servidor para de
// aceitar conexões e aguarda as requisições em andamento.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Msgf("Servidor HTTP ouvindo em %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Encerrando servidor HTTP")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("falha no shutdown: %w", err)
	}
	return nil
}

// --- MIDDLEWARE DE OBSERVABILIDADE ---
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware propaga (ou gera) o correlation id, injeta um logger
// no contexto, escreve o log de acesso e registra métricas da requisição.
// Quando router não é nil, a métrica usa o template da rota casada.
func ObservabilityMiddleware(next http.Handler, logger zerolog.Logger, recorder *metrics.Recorder, router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		reqLogger := logger.With().Str("correlation_id", corrID).Logger()
		ctx := reqLogger.WithContext(r.Context())
		ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		latency := time.Since(start)
		reqLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", latency.Milliseconds()).
			Msg("request completed")

		recorder.Request(r.Method, routeTemplate(router, r), wrapper.statusCode, latency)
	})
}

func routeTemplate(router *mux.Router, r *http.Request) string {
	if router == nil {
		return r.URL.Path
	}
	var match mux.RouteMatch
	if router.Match(r, &match) && match.Route != nil {
		if tpl, err := match.Route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
