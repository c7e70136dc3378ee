package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/raywall/fake-api-toolkit/pkg/config"
	"github.com/raywall/fake-api-toolkit/pkg/fakeapi"
	"github.com/rs/zerolog"
)

var (
	// Variáveis injetáveis para mocking
	serverStarter = func(ctx context.Context, srv *fakeapi.Server) error {
		return srv.Start(ctx)
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run contém a lógica principal testável e devolve o exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = runServe(ctx, args)
	case "init":
		err = runInit(args, stdout)
	case "routes":
		err = runRoutes(ctx, args, stdout)
	case "validate":
		err = runValidate(ctx, args, stdout)
	default:
		fmt.Fprintf(stderr, "Comando desconhecido: %s\nComandos esperados: serve, init, routes, validate\n", cmd)
		return 1
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Erro: %v\n", err)
		return 1
	}
	return 0
}

func configFlag(fset *flag.FlagSet) *string {
	def := os.Getenv("FAKE_API_CONFIG")
	if def == "" {
		def = config.DefaultConfigFile
	}
	return fset.String("config", def, "Caminho do arquivo YAML/JSON ou URI s3:// / dynamodb://")
}

func runServe(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfgPath := configFlag(fset)
	port := fset.Int("port", 0, "Porta HTTP (sobrepõe a configuração)")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(ctx, *cfgPath)
	if err != nil {
		return err
	}
	if *port > 0 {
		cfg.Port = *port
	}

	srv := fakeapi.New(cfg)
	if err := srv.Initialize(ctx); err != nil {
		return err
	}
	return serverStarter(ctx, srv)
}

func runInit(args []string, stdout io.Writer) error {
	fset := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fset.Bool("force", false, "Sobrescreve um arquivo existente")
	dir := fset.String("dir", ".", "Diretório do projeto")
	if err := fset.Parse(args); err != nil {
		return err
	}

	target := filepath.Join(*dir, config.DefaultConfigFile)
	if _, err := os.Stat(target); err == nil && !*force {
		fmt.Fprintf(stdout, "%s já existe. Use -force para sobrescrever.\n", config.DefaultConfigFile)
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	collectionsDir := filepath.Join(*dir, config.DefaultAPIDir, config.DefaultCollectionsDir)
	if err := os.MkdirAll(collectionsDir, 0o755); err != nil {
		return fmt.Errorf("falha ao criar %s: %w", collectionsDir, err)
	}
	if err := os.WriteFile(target, []byte(config.Template), 0o644); err != nil {
		return fmt.Errorf("falha ao escrever %s: %w", target, err)
	}

	fmt.Fprintf(stdout, "Arquivo %s criado.\n", config.DefaultConfigFile)
	return nil
}

func runRoutes(ctx context.Context, args []string, stdout io.Writer) error {
	fset := flag.NewFlagSet("routes", flag.ContinueOnError)
	cfgPath := configFlag(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(ctx, *cfgPath)
	if err != nil {
		return err
	}

	srv := fakeapi.New(cfg, fakeapi.WithLogger(zerolog.Nop()))
	if err := srv.Initialize(ctx); err != nil {
		return err
	}

	set := srv.Routes()
	for _, def := range set.Ordered() {
		fmt.Fprintf(stdout, "%-7s %-30s %s\n", def.Method, def.Route, def.File)
	}
	fmt.Fprintf(stdout, "%d rotas (%d literais, %d parametrizadas)\n", set.Len(), len(set.Literals), len(set.Params))
	return nil
}

func runValidate(ctx context.Context, args []string, stdout io.Writer) error {
	fset := flag.NewFlagSet("validate", flag.ContinueOnError)
	cfgPath := configFlag(fset)
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(ctx, *cfgPath)
	if err != nil {
		return err
	}

	// Output JSON para integração com outras ferramentas
	if os.Getenv("OUTPUT_FORMAT") == "json" {
		out, _ := json.Marshal(cfg)
		fmt.Fprintln(stdout, string(out))
		return nil
	}
	fmt.Fprintln(stdout, "Configuração válida.")
	return nil
}
