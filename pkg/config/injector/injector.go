// Package injector resolve referências "${fonte.chave}" em strings de uma
// struct de configuração. Fontes suportadas: env, ssm (Parameter Store) e
// secret (Secrets Manager).
package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.API_KEY}, ${ssm./app/config}, ${secret.db_pass}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type Injector struct {
	mu      sync.Mutex
	ssm     SSMClient
	secrets SecretsClient
}

type Option func(*Injector)

// WithSSMClient define o cliente do Parameter Store (útil em testes).
func WithSSMClient(c SSMClient) Option {
	return func(i *Injector) { i.ssm = c }
}

// WithSecretsClient define o cliente do Secrets Manager (útil em testes).
func WithSecretsClient(c SecretsClient) Option {
	return func(i *Injector) { i.secrets = c }
}

func New(opts ...Option) *Injector {
	i := &Injector{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inject percorre target (ponteiro para struct) substituindo as referências.
func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		newValue, err := i.interpolateString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(newValue)

	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			if !v.Type().Field(k).IsExported() {
				continue
			}
			if err := i.injectRecursive(ctx, v.Field(k)); err != nil {
				return err
			}
		}

	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return nil
		}
		return i.injectMap(ctx, v)

	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// injectMap lida com mapas. Valores de mapa não são endereçáveis, então cada
// valor é copiado, processado e gravado de volta.
func (i *Injector) injectMap(ctx context.Context, v reflect.Value) error {
	iter := v.MapRange()
	updates := make(map[string]reflect.Value)

	for iter.Next() {
		val := iter.Value()
		elem := val
		if val.Kind() == reflect.Interface {
			elem = val.Elem()
		}
		if !elem.IsValid() {
			continue
		}

		switch elem.Kind() {
		case reflect.String:
			newVal, err := i.interpolateString(ctx, elem.String())
			if err != nil {
				return err
			}
			updates[iter.Key().String()] = reflect.ValueOf(newVal).Convert(elem.Type())
		case reflect.Struct:
			cp := reflect.New(elem.Type()).Elem()
			cp.Set(elem)
			if err := i.injectRecursive(ctx, cp); err != nil {
				return err
			}
			updates[iter.Key().String()] = cp
		default:
			if err := i.injectRecursive(ctx, elem); err != nil {
				return err
			}
		}
	}

	for k, val := range updates {
		v.SetMapIndex(reflect.ValueOf(k).Convert(v.Type().Key()), val)
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}
		groups := pattern.FindStringSubmatch(match)

		val, resolveErr := i.fetchValue(ctx, groups[1], groups[2])
		if resolveErr != nil {
			err = resolveErr // Captura erro para retornar depois
			return match
		}
		return val
	})

	return result, err
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		// Variável não encontrada retorna vazio
		return os.Getenv(key), nil

	case "ssm":
		client, err := i.ssmClient(ctx)
		if err != nil {
			return "", err
		}
		decrypt := true
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           &key,
			WithDecryption: &decrypt,
		})
		if err != nil {
			return "", fmt.Errorf("erro no SSM GetParameter (%s): %w", key, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return "", fmt.Errorf("parâmetro SSM %s sem valor", key)
		}
		return *out.Parameter.Value, nil

	case "secret":
		return i.secretValue(ctx, key)
	}
	return "", fmt.Errorf("fonte desconhecida: %s", sourceType)
}

// secretValue aceita "id" ou "id#campo"; no segundo caso o segredo é lido
// como JSON e apenas o campo é devolvido.
func (i *Injector) secretValue(ctx context.Context, key string) (string, error) {
	client, err := i.secretsClient(ctx)
	if err != nil {
		return "", err
	}

	secretID, field, hasField := strings.Cut(key, "#")
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager (%s): %w", secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("segredo %s sem SecretString", secretID)
	}
	if !hasField {
		return *out.SecretString, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(*out.SecretString), &data); err != nil {
		return "", fmt.Errorf("segredo %s não é um JSON: %w", secretID, err)
	}
	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("campo '%s' ausente no segredo %s", field, secretID)
	}
	return fmt.Sprintf("%v", val), nil
}

func (i *Injector) ssmClient(ctx context.Context) (SSMClient, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ssm == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		i.ssm = ssm.NewFromConfig(cfg)
	}
	return i.ssm, nil
}

func (i *Injector) secretsClient(ctx context.Context) (SecretsClient, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.secrets == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		i.secrets = secretsmanager.NewFromConfig(cfg)
	}
	return i.secrets, nil
}
