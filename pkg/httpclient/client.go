// Package httpclient cria clientes HTTP por endpoint, escolhendo a URL base
// conforme o ambiente corrente (dev, staging, test ou prod).
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/raywall/fake-api-toolkit/pkg/config"
	"github.com/rs/zerolog"
)

var (
	// ErrEndpointNotFound indica um nome de endpoint ausente na configuração.
	ErrEndpointNotFound = errors.New("httpclient: endpoint not found")
	// ErrNoConfiguration indica que não há endpoints nem porta do servidor fake.
	ErrNoConfiguration = errors.New("httpclient: no endpoints configured")
)

// Ambientes reconhecidos.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvTest    = "test"
	EnvProd    = "prod"
)

const userAgent = "fake-api-toolkit/httpclient"

// Client reutilizável para pooling de conexões
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Response representa a resposta do serviço chamado.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON decodifica o corpo em v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Options configura a Factory.
type Options struct {
	Endpoints map[string]config.EndpointConf
	// Port do servidor fake, usada quando não há endpoints configurados.
	Port int
	// ResolveEnv substitui a detecção de ambiente por variáveis.
	ResolveEnv func() string
	HTTPClient *http.Client
}

// Factory cria clientes por endpoint.
type Factory struct {
	opts Options
	env  string
}

// New cria a Factory, fixando o ambiente no momento da criação.
func New(opts Options) *Factory {
	if opts.HTTPClient == nil {
		opts.HTTPClient = defaultHTTPClient
	}
	env := ""
	if opts.ResolveEnv != nil {
		env = opts.ResolveEnv()
	}
	if env == "" {
		env = DetectEnv()
	}
	return &Factory{opts: opts, env: env}
}

// FromConfig monta a Factory a partir da configuração do fake-api.
func FromConfig(cfg *config.FakeAPIConfig) *Factory {
	return New(Options{Endpoints: cfg.HTTP.Endpoints, Port: cfg.Port})
}

// DetectEnv lê APP_ENV (ou GO_ENV) e normaliza pelo prefixo.
func DetectEnv() string {
	value := os.Getenv("APP_ENV")
	if value == "" {
		value = os.Getenv("GO_ENV")
	}
	value = strings.ToLower(value)

	switch {
	case strings.HasPrefix(value, "prod"):
		return EnvProd
	case strings.HasPrefix(value, "stag"):
		return EnvStaging
	case strings.HasPrefix(value, "test"):
		return EnvTest
	}
	return EnvDev
}

// Environment devolve o ambiente escolhido.
func (f *Factory) Environment() string {
	return f.env
}

// CreateOption ajusta um Client criado pela Factory.
type CreateOption func(*Client)

// WithHeaders adiciona headers a todas as requisições do cliente, sobrepondo
// os headers do endpoint.
func WithHeaders(h map[string]string) CreateOption {
	return func(c *Client) {
		for k, v := range h {
			c.Headers[k] = v
		}
	}
}

// Create devolve o cliente do endpoint name no ambiente corrente. Se o
// ambiente não estiver configurado, usa o default do endpoint e depois dev.
func (f *Factory) Create(name string, opts ...CreateOption) (*Client, error) {
	var env *config.EnvironmentConf

	if len(f.opts.Endpoints) == 0 {
		if f.opts.Port <= 0 {
			return nil, ErrNoConfiguration
		}
		env = &config.EnvironmentConf{BaseURL: fmt.Sprintf("http://localhost:%d", f.opts.Port)}
	} else {
		def, ok := f.opts.Endpoints[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrEndpointNotFound, name)
		}
		env = def.Environment(f.env)
		if env == nil {
			fallback := def.Default
			if fallback == "" {
				fallback = EnvDev
			}
			env = def.Environment(fallback)
		}
		if env == nil {
			return nil, fmt.Errorf("httpclient: endpoint %q sem configuração para o ambiente %s", name, f.env)
		}
	}

	c := &Client{
		BaseURL:    env.BaseURL,
		Headers:    make(map[string]string, len(env.Headers)),
		httpClient: f.opts.HTTPClient,
	}
	for k, v := range env.Headers {
		c.Headers[k] = v
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Client executa requisições relativas a BaseURL.
type Client struct {
	BaseURL    string
	Headers    map[string]string
	httpClient *http.Client
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) Head(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodHead, path, nil, nil)
}

func (c *Client) Options(ctx context.Context, path string) (*Response, error) {
	return c.Request(ctx, http.MethodOptions, path, nil, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, body, nil)
}

// Request envia a requisição. Corpos string e []byte seguem sem alteração;
// os demais são codificados em JSON. Content-Type é application/json salvo
// quando definido em headers.
func (c *Client) Request(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	reader, hasBody, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	url := JoinURL(c.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, reader)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if hasBody && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha na conexão com %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta de %s: %w", url, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("method", req.Method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("httpclient request")

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

func encodeBody(body any) (io.Reader, bool, error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case string:
		return strings.NewReader(b), true, nil
	case []byte:
		return bytes.NewReader(b), true, nil
	case io.Reader:
		return b, true, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, false, fmt.Errorf("erro ao codificar body: %w", err)
	}
	return bytes.NewReader(data), true, nil
}

// JoinURL junta base e path com exatamente uma barra entre eles.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
