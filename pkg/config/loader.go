package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/fake-api-toolkit/envloader"
	"github.com/raywall/fake-api-toolkit/pkg/config/injector"
	"gopkg.in/yaml.v3"
)

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Load é o atalho usado pelo CLI.
func Load(ctx context.Context, source string) (*FakeAPIConfig, error) {
	return NewLoader().Load(ctx, source)
}

// Loader suporta múltiplas fontes de configuração (Local, S3, DynamoDB).
type Loader struct {
	validator *ConfigValidator
	injector  *injector.Injector
	s3        S3Downloader
	dynamo    DynamoGetter
}

type LoaderOption func(*Loader)

func WithS3Client(c S3Downloader) LoaderOption {
	return func(l *Loader) { l.s3 = c }
}

func WithDynamoClient(c DynamoGetter) LoaderOption {
	return func(l *Loader) { l.dynamo = c }
}

func WithInjector(inj *injector.Injector) LoaderOption {
	return func(l *Loader) { l.injector = inj }
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		validator: NewValidator(),
		injector:  injector.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load detecta o esquema da fonte e carrega a configuração. Uma fonte vazia,
// ou o arquivo padrão ausente, resulta na configuração padrão (ainda sujeita
// às variáveis de ambiente).
func (l *Loader) Load(ctx context.Context, source string) (*FakeAPIConfig, error) {
	var rawData []byte
	var err error

	switch {
	case source == "":
	case strings.HasPrefix(source, "s3://"):
		rawData, err = l.loadFromS3(ctx, source)
	case strings.HasPrefix(source, "dynamodb://"):
		rawData, err = l.loadFromDynamoDB(ctx, source)
	default:
		rawData, err = l.loadFromFile(source)
		if errors.Is(err, fs.ErrNotExist) && filepath.Base(source) == DefaultConfigFile {
			rawData, err = nil, nil
		}
	}

	if err != nil {
		return nil, fmt.Errorf("falha leitura config (%s): %w", source, err)
	}

	return l.parseAndValidate(ctx, rawData, strings.EqualFold(filepath.Ext(source), ".json"))
}

// --- Estratégias de carregamento ---

func (l *Loader) loadFromFile(path string) ([]byte, error) {
	// Suporta tanto "file://config.yaml" quanto apenas "config.yaml"
	return os.ReadFile(strings.TrimPrefix(path, "file://"))
}

func (l *Loader) loadFromS3(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL S3 inválida: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	client := l.s3
	if client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		client = s3.NewFromConfig(cfg)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (l *Loader) loadFromDynamoDB(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL DynamoDB inválida: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	// Query Params opcionais: dynamodb://tabela/chave?col=dado&pk=UserId
	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config" // Coluna padrão onde o YAML está salvo
	}

	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id" // Nome padrão da Partition Key
	}

	client := l.dynamo
	if client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		client = dynamodb.NewFromConfig(cfg)
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			pkName: &types.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		return nil, err
	}

	if out.Item == nil {
		return nil, fmt.Errorf("item não encontrado no DynamoDB")
	}

	var itemMap map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &itemMap); err != nil {
		return nil, err
	}

	content, ok := itemMap[colName].(string)
	if !ok {
		return nil, fmt.Errorf("coluna '%s' inválida ou vazia no DynamoDB", colName)
	}

	return []byte(content), nil
}

// parseAndValidate aplica, em ordem: padrões, conteúdo da fonte, referências
// ${...}, variáveis de ambiente e validação.
func (l *Loader) parseAndValidate(ctx context.Context, data []byte, isJSON bool) (*FakeAPIConfig, error) {
	cfg := Default()

	if len(data) > 0 {
		var err error
		if isJSON {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("configuração malformada: %w", err)
		}
	}

	if err := l.injector.Inject(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("falha na injeção de variáveis: %w", err)
	}

	if err := envloader.Overlay(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao aplicar variáveis de ambiente: %w", err)
	}

	applyDefaults(&cfg)

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validação da configuração falhou: %w", err)
	}

	return &cfg, nil
}
