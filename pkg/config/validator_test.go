package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator()

	withEndpoints := func(eps map[string]EndpointConf) *FakeAPIConfig {
		cfg := Default()
		cfg.HTTP.Endpoints = eps
		return &cfg
	}
	with := func(mutate func(*FakeAPIConfig)) *FakeAPIConfig {
		cfg := Default()
		mutate(&cfg)
		return &cfg
	}

	tests := []struct {
		name    string
		cfg     *FakeAPIConfig
		wantErr bool
	}{
		{
			name:    "Default Config",
			cfg:     with(func(*FakeAPIConfig) {}),
			wantErr: false,
		},
		{
			name:    "Wildcard Alternativo",
			cfg:     with(func(c *FakeAPIConfig) { c.WildcardChar = "~" }),
			wantErr: false,
		},
		{
			name:    "Wildcard Inválido",
			cfg:     with(func(c *FakeAPIConfig) { c.WildcardChar = "?" }),
			wantErr: true,
		},
		{
			name:    "Wildcard Com Mais De Um Caractere",
			cfg:     with(func(c *FakeAPIConfig) { c.WildcardChar = "__" }),
			wantErr: true,
		},
		{
			name:    "Extensão Desconhecida",
			cfg:     with(func(c *FakeAPIConfig) { c.RouteFileExtension = "ts" }),
			wantErr: true,
		},
		{
			name:    "Porta Fora Do Intervalo",
			cfg:     with(func(c *FakeAPIConfig) { c.Port = 70000 }),
			wantErr: true,
		},
		{
			name:    "Datadog Sem Endereço",
			cfg:     with(func(c *FakeAPIConfig) { c.Metrics.Datadog.Enabled = true }),
			wantErr: true,
		},
		{
			name:    "Collections Igual Ao Diretório Da API",
			cfg:     with(func(c *FakeAPIConfig) { c.CollectionsDir = c.APIDir }),
			wantErr: true,
		},
		{
			name: "Endpoint Válido",
			cfg: withEndpoints(map[string]EndpointConf{
				"users": {Default: "dev", Dev: &EnvironmentConf{BaseURL: "http://localhost:5000"}},
			}),
			wantErr: false,
		},
		{
			name: "Endpoint Com URL Inválida",
			cfg: withEndpoints(map[string]EndpointConf{
				"users": {Dev: &EnvironmentConf{BaseURL: "localhost"}},
			}),
			wantErr: true,
		},
		{
			name: "Endpoint Sem Ambientes",
			cfg: withEndpoints(map[string]EndpointConf{
				"users": {},
			}),
			wantErr: true,
		},
		{
			name: "Default Apontando Para Ambiente Ausente",
			cfg: withEndpoints(map[string]EndpointConf{
				"users": {Default: "prod", Dev: &EnvironmentConf{BaseURL: "http://localhost:5000"}},
			}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEndpointConf_Environment(t *testing.T) {
	dev := &EnvironmentConf{BaseURL: "http://dev"}
	prod := &EnvironmentConf{BaseURL: "http://prod"}
	ep := EndpointConf{Dev: dev, Prod: prod}

	assert.Same(t, dev, ep.Environment("dev"))
	assert.Same(t, prod, ep.Environment("prod"))
	assert.Nil(t, ep.Environment("staging"))
	assert.Nil(t, ep.Environment("qa"))
}
