package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Valores monetários saem como número no JSON
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Response é o envelope de todas as respostas da API
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody descreve o erro devolvido ao cliente
type ErrorBody struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// PageResponse é o formato das listas paginadas
type PageResponse[T any] struct {
	Results []T `json:"results"`
	Page    int `json:"page"`
	Limit   int `json:"limit"`
	Total   int `json:"total"`
}

// PaginationQuery são os parâmetros de paginação aceitos na query string
// Limit é ponteiro para separar ausente (padrão) de limit=0 explícito
type PaginationQuery struct {
	Page  int  `form:"page"`
	Limit *int `form:"limit"`
}

// Success escreve {success: true, data}
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// WriteError traduz o erro para o status HTTP e o envelope de erro. Erros
// internos são registrados no contexto do gin para o middleware de log.
func WriteError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err)
	}
	if appErr.Kind == apperror.KindInternal {
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(StatusFor(appErr.Kind), Response{
		Success: false,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// StatusFor mapeia o tipo do erro para o status HTTP
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindBadRequest:
		return http.StatusBadRequest
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// BindError converte erros de binding do gin em VALIDATION_ERROR com os
// detalhes por campo
func BindError(err error) *apperror.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apperror.FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		return apperror.Validation("Validation failed", details...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperror.Validation("Validation failed", apperror.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		})
	}
	return apperror.Validation("Malformed request body", apperror.FieldError{Field: "body", Message: err.Error()})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid id"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ParseAmount aceita número ou string numérica; qualquer outra coisa é
// BAD_REQUEST/INVALID_AMOUNT
func ParseAmount(raw any) (decimal.Decimal, error) {
	invalid := apperror.BadRequest(apperror.CodeInvalidAmount, "Amount must be a non-negative number")
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, invalid
		}
		return d, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, invalid
		}
		return d, nil
	}
	return decimal.Zero, invalid
}
