package emulator

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFile lê um arquivo de rota YAML ou JSON. Um arquivo vazio resulta em
// uma configuração sem entradas.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo: %w", err)
	}
	return Parse(data)
}

// Parse decodifica o conteúdo de um arquivo de rota.
func Parse(data []byte) (*FileConfig, error) {
	cfg := &FileConfig{
		Routes: make(map[string]RouteConfig),
		Values: make(map[string]interface{}),
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("erro ao parsear arquivo de rota: %w", err)
	}

	for name, node := range raw {
		if node.Kind == yaml.MappingNode {
			var rc RouteConfig
			if err := node.Decode(&rc); err != nil {
				return nil, fmt.Errorf("entrada %q inválida: %w", name, err)
			}
			if rc.Delay != "" {
				if _, err := time.ParseDuration(rc.Delay); err != nil {
					return nil, fmt.Errorf("entrada %q: delay inválido %q (use, por exemplo, \"150ms\"): %w", name, rc.Delay, err)
				}
			}
			cfg.Routes[name] = rc
			continue
		}

		var value interface{}
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("entrada %q inválida: %w", name, err)
		}
		cfg.Values[name] = value
	}
	return cfg, nil
}
