// Package apperror define os tipos de erro da aplicação e os códigos estáveis
// devolvidos aos clientes da API.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifica um erro de forma independente do transporte
type Kind string

const (
	KindConflict     Kind = "CONFLICT"
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindBadRequest   Kind = "BAD_REQUEST"
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

// Códigos usados em mais de um módulo
const (
	CodeNotFound        = "NOT_FOUND"
	CodeDuplicateKey    = "DUPLICATE_KEY"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidID       = "INVALID_ID"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeForbidden       = "FORBIDDEN"
	CodeInternal        = "INTERNAL_ERROR"
	CodeInvalidAmount   = "INVALID_AMOUNT"
	CodeBadRequest      = "BAD_REQUEST"
	CodeInvalidSortSpec = "INVALID_SORT"
)

// FieldError descreve um problema de validação em um campo específico
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error é o erro tipado propagado entre serviços e controllers
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New cria um erro com o tipo, código e mensagem informados
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Forbidden(code, message string) *Error {
	return New(KindForbidden, code, message)
}

func BadRequest(code, message string) *Error {
	return New(KindBadRequest, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

// Validation cria um erro de validação com os detalhes por campo
func Validation(message string, details ...FieldError) *Error {
	e := New(KindValidation, CodeValidation, message)
	e.Details = details
	return e
}

// Internal embrulha uma falha inesperada (banco, rede)
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "internal server error", Err: err}
}

// As extrai um *Error da cadeia de erros
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf retorna o tipo do erro; erros desconhecidos são internos
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// HasCode verifica se o erro carrega o código informado
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
