package dto

import (
	"encoding/json"
	"testing"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseRequestParsedAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
		kind apperror.Kind
		code string
	}{
		{name: "number", raw: 12.5, want: "12.5"},
		{name: "numeric string", raw: " 7.500 ", want: "7.5"},
		{name: "json number", raw: json.Number("3"), want: "3"},
		{name: "zero", raw: 0.0, want: "0"},
		{name: "missing", raw: nil, kind: apperror.KindValidation, code: apperror.CodeValidation},
		{name: "text", raw: "abc", kind: apperror.KindBadRequest, code: apperror.CodeInvalidAmount},
		{name: "boolean", raw: true, kind: apperror.KindBadRequest, code: apperror.CodeInvalidAmount},
		{name: "object", raw: map[string]any{"v": 1}, kind: apperror.KindBadRequest, code: apperror.CodeInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpenseRequest{Amount: tt.raw, Label: "Café"}.ParsedAmount()
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.kind, apperror.KindOf(err))
				assert.True(t, apperror.HasCode(err, tt.code))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), got.String())
		})
	}

	t.Run("missing amount names the field", func(t *testing.T) {
		_, err := ExpenseRequest{Label: "Café"}.ParsedAmount()
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		require.Len(t, appErr.Details, 1)
		assert.Equal(t, "amount", appErr.Details[0].Field)
	})
}

func TestDecimalsMarshalAsNumbers(t *testing.T) {
	// basta importar o pacote para o formato valer
	raw, err := json.Marshal(SessionExpenseLine{Label: "Péage", Amount: decimal.RequireFromString("7.25")})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":7.25`)
}
