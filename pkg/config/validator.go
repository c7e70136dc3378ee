package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	v := validator.New()
	_ = v.RegisterValidation("wildcard", validWildcard)
	return &ConfigValidator{
		validate: v,
	}
}

// validWildcard aceita exatamente um dos caracteres de WildcardChars.
func validWildcard(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) == 1 && strings.Contains(WildcardChars, s)
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *FakeAPIConfig) error {
	// 1. Validação Estrutural (Tags do struct: required, oneof, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica
	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *FakeAPIConfig) error {
	if cfg.CollectionsDir == cfg.APIDir || strings.HasPrefix(cfg.CollectionsDir, "../") {
		return fmt.Errorf("collections_dir '%s' deve ser um subdiretório de api_dir", cfg.CollectionsDir)
	}

	names := make([]string, 0, len(cfg.HTTP.Endpoints))
	for name := range cfg.HTTP.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ep := cfg.HTTP.Endpoints[name]
		if ep.Dev == nil && ep.Prod == nil && ep.Staging == nil && ep.Test == nil {
			return fmt.Errorf("endpoint '%s' não possui nenhum ambiente configurado", name)
		}
		// O ambiente default precisa existir no próprio endpoint
		if ep.Default != "" && ep.Environment(ep.Default) == nil {
			return fmt.Errorf("endpoint '%s' aponta default '%s', que não está configurado", name, ep.Default)
		}
	}
	return nil
}
