package faker

import "errors"

var (
	// ErrUnsupportedType indica um valor de "type" desconhecido no schema.
	ErrUnsupportedType = errors.New("faker: tipo de schema não suportado")
	// ErrUnresolvableRef indica um $ref que não aponta para dentro do próprio documento.
	ErrUnresolvableRef = errors.New("faker: referência não resolvível")
	// ErrMaxDepth interrompe schemas recursivos sem condição de parada.
	ErrMaxDepth = errors.New("faker: profundidade máxima de schema excedida")
	// ErrUnknownFaker indica um gerador inexistente na palavra-chave "faker".
	ErrUnknownFaker = errors.New("faker: gerador desconhecido")
)
