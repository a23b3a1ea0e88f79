package service

import "fmt"

// ErrorKind is the closed set of failures the service reports.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Field messages shared by the service and the HTTP binding layer.
const (
	MsgTitleRequired    = "Título é obrigatório"
	MsgDueDateRequired  = "Data limite é obrigatória"
	MsgPriorityRequired = "Prioridade é obrigatória"
	MsgStatusRequired   = "Status é obrigatório"
	MsgInvalidDate      = "Data inválida, use o formato YYYY-MM-DD"
	MsgInvalidID        = "Identificador inválido"
	MsgInvalidType      = "Tipo inválido"
	MsgMalformedBody    = "JSON malformado"
)

// Error is returned by every TaskService operation that fails.
type Error struct {
	Kind    ErrorKind
	Message string
	// Fields maps JSON field names to messages for KindValidation.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports rejected input, one message per field.
func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Dados inválidos", Fields: fields}
}

// NewNotFoundError reports an id that does not resolve to a row.
func NewNotFoundError(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// NewInternalError wraps any other failure.
func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Erro interno do servidor", Err: err}
}

// InvalidValue is the field message for a value outside an enum.
func InvalidValue(value any) string {
	return fmt.Sprintf("Valor inválido: %v", value)
}
