package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
)

const dateLayout = "2006-01-02"

// ParseDate aceita RFC3339 ou AAAA-MM-DD; vazio devolve nil
func ParseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperror.Validation("Validation failed", apperror.FieldError{
			Field:   field,
			Message: "must be a date (YYYY-MM-DD) or an RFC3339 timestamp",
		})
	}
	return &t, nil
}

// ParseBool trata "true"/"false"; vazio devolve nil
func ParseBool(field, raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.Validation("Validation failed", apperror.FieldError{Field: field, Message: "must be true or false"})
	}
	return &b, nil
}

// ParseFloat lê um número obrigatório da query string
func ParseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, apperror.Validation("Validation failed", apperror.FieldError{Field: field, Message: "must be a number"})
	}
	return v, nil
}
