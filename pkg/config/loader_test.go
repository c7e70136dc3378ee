package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockS3Loader struct {
	GetObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *MockS3Loader) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.GetObjectFunc(ctx, params, optFns...)
}

type MockDynamoLoader struct {
	GetItemFunc func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

func (m *MockDynamoLoader) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetItemFunc(ctx, params, optFns...)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- Testes ---

func TestLoader_Load_Local(t *testing.T) {
	path := writeConfig(t, "fake-api.yaml", `
port: 8080
api_dir: mocks
wildcard_char: "~"
logging:
  level: debug
`)

	cfg, err := NewLoader().Load(context.Background(), "file://"+path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mocks", cfg.APIDir)
	assert.Equal(t, "~", cfg.WildcardChar)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Campos ausentes mantêm o padrão
	assert.Equal(t, DefaultCollectionsDir, cfg.CollectionsDir)
	assert.Equal(t, DefaultRouteFileExtension, cfg.RouteFileExtension)
	assert.True(t, cfg.Logging.Enabled)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoader_Load_JSON(t *testing.T) {
	path := writeConfig(t, "fake-api.json", `{"port": 7000, "route_file_extension": "json"}`)

	cfg, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "json", cfg.RouteFileExtension)
}

func TestLoader_Load_DefaultFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultConfigFile)

	cfg, err := NewLoader().Load(context.Background(), missing)
	require.NoError(t, err)
	assert.Equal(t, Default().Port, cfg.Port)

	cfg, err = NewLoader().Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIDir, cfg.APIDir)
}

func TestLoader_Load_ExplicitFileMissing(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "custom.yaml"))
	assert.Error(t, err)
}

func TestLoader_Load_EnvOverlay(t *testing.T) {
	path := writeConfig(t, "fake-api.yaml", "port: 8080\napi_dir: mocks\n")

	t.Setenv("FAKE_API_PORT", "9999")
	t.Setenv("FAKE_API_WILDCARD_CHAR", "$")

	cfg, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "$", cfg.WildcardChar)
	assert.Equal(t, "mocks", cfg.APIDir, "variável ausente não sobrescreve o arquivo")
}

func TestLoader_Load_Interpolation(t *testing.T) {
	t.Setenv("USERS_URL", "http://users.local")
	path := writeConfig(t, "fake-api.yaml", `
http:
  endpoints:
    users:
      dev:
        base_url: "${env.USERS_URL}"
`)

	cfg, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://users.local", cfg.HTTP.Endpoints["users"].Dev.BaseURL)
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"YAML malformado", "port: [\n"},
		{"Wildcard inválido", "wildcard_char: \"?\"\n"},
		{"Extensão inválida", "route_file_extension: ts\n"},
		{"Tipo incorreto", "port: abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "fake-api.yaml", tt.content)
			_, err := NewLoader().Load(context.Background(), path)
			assert.Error(t, err)
		})
	}
}

func TestLoader_Load_S3(t *testing.T) {
	mock := &MockS3Loader{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			if *params.Bucket != "my-bucket" || *params.Key != "configs/fake-api.yaml" {
				return nil, errors.New("objeto inesperado")
			}
			return &s3.GetObjectOutput{
				Body: io.NopCloser(strings.NewReader("port: 6000\n")),
			}, nil
		},
	}

	cfg, err := NewLoader(WithS3Client(mock)).Load(context.Background(), "s3://my-bucket/configs/fake-api.yaml")
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Port)
}

func TestLoader_Load_S3Error(t *testing.T) {
	mock := &MockS3Loader{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			return nil, errors.New("access denied")
		},
	}

	_, err := NewLoader(WithS3Client(mock)).Load(context.Background(), "s3://my-bucket/fake-api.yaml")
	assert.ErrorContains(t, err, "access denied")
}

func TestLoader_Load_DynamoDB(t *testing.T) {
	mock := &MockDynamoLoader{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			assert.Equal(t, "configs", *params.TableName)
			key, ok := params.Key["service"].(*types.AttributeValueMemberS)
			if !ok || key.Value != "fake-api" {
				return &dynamodb.GetItemOutput{}, nil
			}
			return &dynamodb.GetItemOutput{
				Item: map[string]types.AttributeValue{
					"service": &types.AttributeValueMemberS{Value: "fake-api"},
					"yaml":    &types.AttributeValueMemberS{Value: "port: 6100\napi_dir: remote\n"},
				},
			}, nil
		},
	}
	loader := NewLoader(WithDynamoClient(mock))

	t.Run("Item Encontrado", func(t *testing.T) {
		cfg, err := loader.Load(context.Background(), "dynamodb://configs/fake-api?col=yaml&pk=service")
		require.NoError(t, err)
		assert.Equal(t, 6100, cfg.Port)
		assert.Equal(t, "remote", cfg.APIDir)
	})

	t.Run("Item Ausente", func(t *testing.T) {
		_, err := loader.Load(context.Background(), "dynamodb://configs/other?col=yaml&pk=service")
		assert.ErrorContains(t, err, "item não encontrado")
	})

	t.Run("Coluna Ausente", func(t *testing.T) {
		_, err := loader.Load(context.Background(), "dynamodb://configs/fake-api?col=config&pk=service")
		assert.ErrorContains(t, err, "coluna 'config'")
	})
}

func TestTemplate_IsValidConfig(t *testing.T) {
	path := writeConfig(t, DefaultConfigFile, Template)

	cfg, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "localhost:8125", cfg.Metrics.Datadog.Addr)
	assert.Equal(t, "dev", cfg.HTTP.Endpoints["users"].Default)
}
