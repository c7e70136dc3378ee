package config

// Valores padrão aplicados quando o arquivo não define o campo.
const (
	DefaultRuntime            = "local"
	DefaultPort               = 5000
	DefaultAPIDir             = "api"
	DefaultCollectionsDir     = "collections"
	DefaultWildcardChar       = "_"
	DefaultRouteFileExtension = "yaml"
	DefaultConfigFile         = "fake-api.yaml"
)

// WildcardChars são os caracteres aceitos como marcador de segmento dinâmico.
const WildcardChars = "!@#$%^&*_-+=~"

// Default devolve a configuração padrão.
func Default() FakeAPIConfig {
	return FakeAPIConfig{
		Runtime:            DefaultRuntime,
		Port:               DefaultPort,
		APIDir:             DefaultAPIDir,
		CollectionsDir:     DefaultCollectionsDir,
		WildcardChar:       DefaultWildcardChar,
		RouteFileExtension: DefaultRouteFileExtension,
		Logging: LoggingConf{
			Enabled: true,
			Level:   "info",
			Format:  "console",
		},
	}
}

// Template é o arquivo escrito pelo comando init.
const Template = `# Configuração do fake-api
# local (servidor HTTP) ou lambda (API Gateway)
runtime: local
port: 5000
api_dir: api
collections_dir: collections
# caractere que marca um segmento dinâmico: api/users/_id.yaml -> /users/:id
wildcard_char: "_"
# go (handlers registrados no binário), yaml, yml ou json
route_file_extension: yaml
# fila SQS opcional: cada mensagem regenera as coleções
# reload_queue: https://sqs.us-east-1.amazonaws.com/000000000000/fake-api-reload

logging:
  enabled: true
  level: info
  format: console

metrics:
  datadog:
    enabled: false
    addr: localhost:8125
    namespace: fake_api.

faker:
  seed: 0

http:
  endpoints:
    users:
      default: dev
      dev:
        base_url: http://localhost:5000
        headers:
          Accept: application/json
`

// applyDefaults preenche campos zerados com os valores padrão.
func applyDefaults(cfg *FakeAPIConfig) {
	def := Default()
	if cfg.Runtime == "" {
		cfg.Runtime = def.Runtime
	}
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.APIDir == "" {
		cfg.APIDir = def.APIDir
	}
	if cfg.CollectionsDir == "" {
		cfg.CollectionsDir = def.CollectionsDir
	}
	if cfg.WildcardChar == "" {
		cfg.WildcardChar = def.WildcardChar
	}
	if cfg.RouteFileExtension == "" {
		cfg.RouteFileExtension = def.RouteFileExtension
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}
