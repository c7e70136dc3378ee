// Package fake_api_toolkit reúne as peças para subir uma API falsa a partir de
// uma árvore de diretórios: schemas JSON viram coleções de dados sintéticos e
// arquivos de rota viram endpoints HTTP.
//
// Visão Geral:
// O fluxo é dividido em pacotes pequenos e testáveis isoladamente:
// 1. Configuração (pkg/config, envloader): arquivo YAML/JSON, S3 ou DynamoDB,
// interpolação de ${env.X}, ${ssm.path} e ${secret.id#campo} e sobreposição
// por variáveis de ambiente FAKE_API_*.
// 2. Dados (pkg/faker, pkg/collections): geração de coleções a partir de
// JSON Schema usando gofakeit, com cache por processo e recarga sob demanda.
// 3. Rotas (pkg/routes, pkg/emulator): o caminho do arquivo define o template
// da rota ("users/_id.yaml" vira "/users/:id") e cada verbo exportado vira um
// handler. Rotas literais são sempre registradas antes das parametrizadas.
// 4. Servidor (pkg/fakeapi, pkg/transport): router gorilla/mux com
// correlation id, log de acesso e métricas, rodando localmente ou no Lambda.
// 5. Cliente (pkg/httpclient): chamadas aos endpoints configurados por ambiente.
//
// Sub-Pacotes Principais:
//
// 1. pkg/collections:
//   - Loader.Load gera as coleções uma única vez; Reload troca o cache inteiro.
//
// 2. pkg/routes:
//   - Mapper.Map varre o diretório da API e devolve um RouteSet.
//   - AddRoutes registra o RouteSet em qualquer Server (MuxServer incluso).
//
// 3. pkg/emulator:
//   - Arquivos de rota declarativos com resposta estática, coleção ou dados
//     inline filtrados por path/query params.
//
// Exemplo de Início Rápido:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/raywall/fake-api-toolkit/pkg/config"
//		"github.com/raywall/fake-api-toolkit/pkg/fakeapi"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		// 1. Carregar configuração (fake-api.yaml ausente usa os defaults)
//		cfg, err := config.Load(ctx, "fake-api.yaml")
//		if err != nil {
//			log.Fatalf("Erro ao carregar configuração: %v", err)
//		}
//
//		// 2. Gerar coleções e mapear rotas
//		srv := fakeapi.New(cfg)
//		if err := srv.Initialize(ctx); err != nil {
//			log.Fatalf("Erro ao inicializar: %v", err)
//		}
//
//		// 3. Servir em http://localhost:<port>
//		if err := srv.Start(ctx); err != nil {
//			log.Fatal(err)
//		}
//	}
package fake_api_toolkit
