package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
)

// lookupFunc devolve o valor a aplicar para um campo, se ele veio do
// envDefault e se deve ser aplicado.
type lookupFunc func(envTag, defaultTag string) (value string, fromDefault, ok bool)

// Load preenche uma struct com valores de variáveis de ambiente
// baseado nas tags "env" e "envDefault"
func Load(config interface{}) error {
	return walk(OpLoad, config, true, func(envTag, defaultTag string) (string, bool, bool) {
		if envValue := os.Getenv(envTag); envValue != "" {
			return envValue, false, true
		}
		return defaultTag, true, defaultTag != ""
	})
}

// Overlay sobrescreve apenas os campos cuja variável de ambiente está
// definida. Tags envDefault são ignoradas e ponteiros nulos não são criados,
// de modo que valores vindos de um arquivo permanecem intactos.
func Overlay(config interface{}) error {
	return walk(OpOverlay, config, false, func(envTag, _ string) (string, bool, bool) {
		value, ok := os.LookupEnv(envTag)
		return value, false, ok
	})
}

func walk(op string, config interface{}, allocate bool, lookup lookupFunc) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{
			Op:    op,
			Value: reflect.TypeOf(config),
			Nil:   val.Kind() == reflect.Ptr && val.IsNil(),
		}
	}
	return loadStruct(val.Elem(), allocate, lookup)
}

// loadStruct processa recursivamente uma struct
func loadStruct(val reflect.Value, allocate bool, lookup lookupFunc) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		switch {
		case field.Kind() == reflect.Struct:
			if err := loadStruct(field, allocate, lookup); err != nil {
				return err
			}
			continue

		case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
			if field.IsNil() {
				if !allocate {
					continue
				}
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := loadStruct(field.Elem(), allocate, lookup); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue, fromDefault, ok := lookup(envTag, fieldType.Tag.Get("envDefault"))
		if !ok {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return &FieldError{
				FieldName:   fieldType.Name,
				EnvVar:      envTag,
				Value:       envValue,
				FromDefault: fromDefault,
				Err:         err,
			}
		}
	}

	return nil
}

// setFieldValue define o valor de um campo baseado no seu tipo
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(uintValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return &UnsupportedTypeError{Type: field.Type()}
		}
		parts := strings.Split(value, ",")
		out := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = reflect.Append(out, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}
		field.Set(out)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}

// MustLoad é similar ao Load, mas panic em caso de erro
func MustLoad(config interface{}) {
	if err := Load(config); err != nil {
		panic(err)
	}
}
