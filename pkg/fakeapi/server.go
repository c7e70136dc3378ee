// Package fakeapi monta o servidor fake: gera as coleções, mapeia os arquivos
// de rota e publica tudo em um router gorilla/mux.
package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gorilla/mux"
	"github.com/raywall/fake-api-toolkit/pkg/collections"
	"github.com/raywall/fake-api-toolkit/pkg/config"
	"github.com/raywall/fake-api-toolkit/pkg/emulator"
	"github.com/raywall/fake-api-toolkit/pkg/faker"
	"github.com/raywall/fake-api-toolkit/pkg/logger"
	"github.com/raywall/fake-api-toolkit/pkg/metrics"
	"github.com/raywall/fake-api-toolkit/pkg/observability"
	"github.com/raywall/fake-api-toolkit/pkg/routes"
	"github.com/raywall/fake-api-toolkit/pkg/transport"
	"github.com/rs/zerolog"
)

// ErrNotInitialized é devolvido por Start antes de Initialize.
var ErrNotInitialized = errors.New("fakeapi: servidor não inicializado, chame Initialize antes de Start")

// lambdaStarter é substituível em testes.
var lambdaStarter = func(handler interface{}) { lambda.Start(handler) }

// Server é o servidor fake montado a partir da configuração.
type Server struct {
	cfg *config.FakeAPIConfig

	logger    zerolog.Logger
	hasLogger bool
	generator collections.Generator
	fsys      fs.FS
	resolver  routes.HandlerResolver
	modules   map[string]routes.Module
	provider  observability.Provider
	sqsClient transport.SQSClient

	loader   *collections.Loader
	recorder *metrics.Recorder
	router   *mux.Router
	handler  http.Handler
	routes   routes.RouteSet
}

type Option func(*Server)

// WithLogger substitui o logger criado a partir de cfg.Logging.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger, s.hasLogger = l, true }
}

// WithGenerator troca o gerador de coleções.
func WithGenerator(g collections.Generator) Option {
	return func(s *Server) { s.generator = g }
}

// WithFS lê as coleções de fsys em vez do disco.
func WithFS(fsys fs.FS) Option {
	return func(s *Server) { s.fsys = fsys }
}

// WithResolver ignora a extensão configurada e usa r para carregar as rotas.
func WithResolver(r routes.HandlerResolver) Option {
	return func(s *Server) { s.resolver = r }
}

// WithModule registra um módulo Go para o arquivo de rota file (caminho
// relativo ao diretório da API), usado quando a extensão é "go".
func WithModule(file string, m routes.Module) Option {
	return func(s *Server) { s.modules[file] = m }
}

// WithMetricsProvider substitui o provedor criado a partir de cfg.Metrics.
func WithMetricsProvider(p observability.Provider) Option {
	return func(s *Server) { s.provider = p }
}

// WithSQSClient define o cliente usado pela fila de reload.
func WithSQSClient(c transport.SQSClient) Option {
	return func(s *Server) { s.sqsClient = c }
}

// New cria o servidor. Nada é lido do disco até Initialize.
func New(cfg *config.FakeAPIConfig, opts ...Option) *Server {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	s := &Server{
		cfg:     cfg,
		modules: make(map[string]routes.Module),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.hasLogger {
		s.logger = logger.Configure(cfg.Logging)
	}
	return s
}

// Initialize carrega as coleções, mapeia as rotas e monta o handler.
func (s *Server) Initialize(ctx context.Context) error {
	if s.provider == nil {
		p, err := observability.SetupMetrics(s.cfg.Metrics)
		if err != nil {
			return err
		}
		s.provider = p
	}
	s.recorder = metrics.NewRecorder(s.provider)

	loaderOpts := []collections.Option{collections.WithLogger(s.logger)}
	if s.fsys != nil {
		loaderOpts = append(loaderOpts, collections.WithFS(s.fsys))
	}
	s.loader = collections.NewLoader(s.newGenerator(), loaderOpts...)

	data := s.loader.Load(ctx, s.cfg.APIDir, s.cfg.CollectionsDir)
	s.recordCollections(data)

	resolver, err := s.newResolver()
	if err != nil {
		return err
	}

	mapper := routes.NewMapper(resolver,
		routes.WithLogger(s.logger),
		routes.WithExcludeDir(firstSegment(s.cfg.CollectionsDir)),
	)
	set, err := mapper.Map(ctx, s.cfg.APIDir, s.cfg.WildcardChar, s.cfg.RouteFileExtension)
	if err != nil {
		return fmt.Errorf("falha ao mapear rotas: %w", err)
	}
	s.routes = set

	muxServer := routes.NewMuxServer(nil)
	total := routes.AddRoutes(muxServer, set, s.logger)
	s.recorder.Routes(total)

	s.router = muxServer.Router()
	s.handler = transport.ObservabilityMiddleware(s.router, s.logger, s.recorder, s.router)
	return nil
}

func (s *Server) newGenerator() collections.Generator {
	if s.generator != nil {
		return s.generator
	}
	var opts []faker.ResolverOption
	if s.cfg.Faker.Seed != 0 {
		opts = append(opts, faker.WithSeed(s.cfg.Faker.Seed))
	}
	return faker.NewGenerator(faker.NewSchemaResolver(opts...))
}

func (s *Server) newResolver() (routes.HandlerResolver, error) {
	if s.resolver != nil {
		return s.resolver, nil
	}
	switch strings.ToLower(s.cfg.RouteFileExtension) {
	case "go":
		registry := routes.NewRegistry(s.loader)
		for file, m := range s.modules {
			registry.Register(file, m)
		}
		return registry, nil
	case "yaml", "yml", "json":
		return emulator.NewResolver(s.loader), nil
	}
	return nil, fmt.Errorf("extensão de rota não suportada: %s", s.cfg.RouteFileExtension)
}

func (s *Server) recordCollections(data collections.Data) {
	for name, items := range data {
		s.recorder.Collection(name, len(items))
	}
}

// Start publica o servidor conforme o runtime configurado e bloqueia até ctx
// ser cancelado (local) ou até o runtime Lambda encerrar.
func (s *Server) Start(ctx context.Context) error {
	if s.handler == nil {
		return ErrNotInitialized
	}
	defer func() {
		if err := s.provider.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Falha ao encerrar provedor de métricas")
		}
	}()

	if s.cfg.ReloadQueue != "" {
		client, err := s.reloadClient(ctx)
		if err != nil {
			return err
		}
		reloader := transport.NewSQSReloader(client, s.cfg.ReloadQueue, transport.ReloaderFunc(s.Reload), s.logger)
		go reloader.Start(ctx)
	}

	if s.cfg.Runtime == "lambda" {
		s.logger.Info().Int("routes", s.routes.Len()).Msg("Fake API iniciada no runtime lambda")
		lambdaStarter(transport.NewLambdaHandler(s.handler).Handle)
		return nil
	}

	s.logger.Info().Msgf("Fake API server running at http://localhost:%d", s.cfg.Port)
	return transport.NewServer(s.handler, s.logger).ListenAndServe(ctx, s.cfg.Port)
}

func (s *Server) reloadClient(ctx context.Context) (transport.SQSClient, error) {
	if s.sqsClient != nil {
		return s.sqsClient, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
	}
	return sqs.NewFromConfig(awsCfg), nil
}

// Reload regenera as coleções mantendo as rotas registradas.
func (s *Server) Reload(ctx context.Context) error {
	if s.loader == nil {
		return ErrNotInitialized
	}
	data, err := s.loader.Reload(ctx, s.cfg.APIDir, s.cfg.CollectionsDir)
	if err != nil {
		return err
	}
	s.recordCollections(data)
	return nil
}

// Collections devolve as coleções carregadas.
func (s *Server) Collections() collections.Data {
	if s.loader == nil {
		return nil
	}
	return s.loader.All()
}

// Querier devolve a interface de consulta às coleções (nil antes de Initialize).
func (s *Server) Querier() collections.Querier {
	if s.loader == nil {
		return nil
	}
	return s.loader
}

// Routes devolve as rotas mapeadas.
func (s *Server) Routes() routes.RouteSet {
	return s.routes
}

// Handler devolve o handler montado (nil antes de Initialize).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// firstSegment devolve o primeiro segmento de um caminho relativo; apenas o
// primeiro nível abaixo da API é ignorado na varredura de rotas.
func firstSegment(dir string) string {
	dir = strings.Trim(strings.ReplaceAll(dir, "\\", "/"), "/")
	if i := strings.Index(dir, "/"); i >= 0 {
		return dir[:i]
	}
	return dir
}
