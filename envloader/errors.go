// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package envloader

import (
	"fmt"
	"reflect"
)

// Operações reportadas nos erros.
const (
	OpLoad    = "Load"
	OpOverlay = "Overlay"
)

// InvalidConfigError é retornado quando Load ou Overlay recebem um argumento
// 'config' que não é um ponteiro não nulo para uma struct.
type InvalidConfigError struct {
	// Op é a operação chamada (OpLoad ou OpOverlay).
	Op string
	// Value é o tipo refletido que foi fornecido (nil quando config é nil).
	Value reflect.Type
	// Nil indica um ponteiro tipado nulo, ex: (*FakeAPIConfig)(nil).
	Nil bool
}

// Error retorna uma mensagem formatada indicando o tipo de argumento inválido.
//
// Exemplo de Retorno: "envloader: Overlay: config must be a pointer to struct, got nil pointer to struct"
func (e *InvalidConfigError) Error() string {
	prefix := "envloader: "
	if e.Op != "" {
		prefix += e.Op + ": "
	}
	prefix += "config must be a pointer to struct, got "

	switch {
	case e.Value == nil:
		return prefix + "nil"
	case e.Value.Kind() != reflect.Ptr:
		return prefix + e.Value.Kind().String()
	case e.Nil:
		return prefix + "nil pointer to " + e.Value.Elem().Kind().String()
	}
	return prefix + "pointer to " + e.Value.Elem().Kind().String()
}

// FieldError é retornado quando o valor de uma variável não pode ser
// convertido para o tipo do campo.
//
// No Overlay o valor sempre vem do ambiente; no Load pode vir do envDefault,
// o que indica um erro na própria declaração da struct.
type FieldError struct {
	// FieldName é o nome do campo da struct (ex: "Port").
	FieldName string
	// EnvVar é o nome da variável de ambiente (ex: "FAKE_API_PORT").
	EnvVar string
	// Value é o valor bruto que causou o erro (ex: "abc").
	Value string
	// FromDefault indica que Value veio da tag envDefault.
	FromDefault bool
	// Err é o erro original encapsulado (ex: *strconv.NumError).
	Err error
}

func (e *FieldError) Error() string {
	if e.FromDefault {
		return fmt.Sprintf("envloader: error setting field %s from envDefault of %s=%s: %v",
			e.FieldName, e.EnvVar, e.Value, e.Err)
	}
	return fmt.Sprintf("envloader: error setting field %s from env %s=%s: %v",
		e.FieldName, e.EnvVar, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError é retornado quando o campo tem uma tag env mas seu
// tipo não tem conversão (ex: map, interface ou slice de não-strings).
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("envloader: unsupported type %s", e.Type)
}
