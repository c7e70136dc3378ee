package config

// FakeAPIConfig representa o arquivo de configuração do servidor fake.
type FakeAPIConfig struct {
	Runtime            string      `json:"runtime" yaml:"runtime" env:"FAKE_API_RUNTIME" validate:"required,oneof=local lambda"`
	Port               int         `json:"port" yaml:"port" env:"FAKE_API_PORT" validate:"gte=0,lte=65535"`
	APIDir             string      `json:"api_dir" yaml:"api_dir" env:"FAKE_API_DIR" validate:"required"`
	CollectionsDir     string      `json:"collections_dir" yaml:"collections_dir" env:"FAKE_API_COLLECTIONS_DIR" validate:"required"`
	WildcardChar       string      `json:"wildcard_char" yaml:"wildcard_char" env:"FAKE_API_WILDCARD_CHAR" validate:"required,wildcard"`
	RouteFileExtension string      `json:"route_file_extension" yaml:"route_file_extension" env:"FAKE_API_ROUTE_FILE_EXTENSION" validate:"required,oneof=go yaml yml json"`
	// ReloadQueue é a URL de uma fila SQS; cada mensagem regenera as coleções.
	ReloadQueue        string      `json:"reload_queue,omitempty" yaml:"reload_queue" env:"FAKE_API_RELOAD_QUEUE" validate:"omitempty,url"`
	Logging            LoggingConf `json:"logging" yaml:"logging"`
	Metrics            MetricsConf `json:"metrics" yaml:"metrics"`
	HTTP               HTTPConf    `json:"http" yaml:"http"`
	Faker              FakerConf   `json:"faker" yaml:"faker"`
}

type LoggingConf struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"FAKE_API_LOG_ENABLED"`
	Level   string `json:"level" yaml:"level" env:"FAKE_API_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Format  string `json:"format" yaml:"format" env:"FAKE_API_LOG_FORMAT" validate:"omitempty,oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `json:"datadog" yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" env:"DD_ENABLED"`
	Addr      string `json:"addr" yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// HTTPConf agrupa os endpoints usados pelo cliente HTTP de conveniência.
type HTTPConf struct {
	Endpoints map[string]EndpointConf `json:"endpoints" yaml:"endpoints" validate:"dive"`
}

// EndpointConf descreve um endpoint por ambiente. Default indica o ambiente
// usado quando o ambiente corrente não está configurado.
type EndpointConf struct {
	Dev     *EnvironmentConf `json:"dev,omitempty" yaml:"dev"`
	Prod    *EnvironmentConf `json:"prod,omitempty" yaml:"prod"`
	Staging *EnvironmentConf `json:"staging,omitempty" yaml:"staging"`
	Test    *EnvironmentConf `json:"test,omitempty" yaml:"test"`
	Default string           `json:"default,omitempty" yaml:"default" validate:"omitempty,oneof=dev prod staging test"`
}

type EnvironmentConf struct {
	BaseURL string            `json:"base_url" yaml:"base_url" validate:"required,url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers"`
}

// Environment devolve a configuração do ambiente informado, ou nil.
func (e EndpointConf) Environment(env string) *EnvironmentConf {
	switch env {
	case "dev":
		return e.Dev
	case "prod":
		return e.Prod
	case "staging":
		return e.Staging
	case "test":
		return e.Test
	}
	return nil
}

type FakerConf struct {
	Seed uint64 `json:"seed" yaml:"seed" env:"FAKE_API_SEED"`
}
