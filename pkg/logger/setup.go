package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/fake-api-toolkit/pkg/config"
	"github.com/rs/zerolog"
)

// Configure inicializa o logger global baseando-se na configuração do YAML.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return New(cfg, os.Stdout)
}

// New cria o logger escrevendo em out. Também o registra como logger padrão
// de contexto, usado por zerolog.Ctx quando a requisição não carrega um.
func New(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção, Console "bonito" para uso local
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "fake-api").
		Logger()

	zerolog.DefaultContextLogger = &logger
	return logger
}
