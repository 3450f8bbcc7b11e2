package worksession

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkSessionStartsZeroed(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	s := NewWorkSession("agent-1", start)

	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, start, s.StartTime)
	assert.Nil(t, s.EndTime)
	assert.True(t, s.Totals.DerivedRevenue().IsZero())
	assert.Empty(t, s.Deliveries)
	assert.Empty(t, s.Payments)
	assert.Empty(t, s.Expenses)
}

func TestTotalsAddAndRevenue(t *testing.T) {
	s := NewWorkSession("agent-1", time.Time{})
	s.Totals.Add(TotalCashCollected, decimal.NewFromInt(100))
	s.Totals.Add(TotalCreditCollected, decimal.NewFromInt(40))
	s.Totals.Add(TotalCreditSales, decimal.NewFromInt(60))
	s.Totals.Add(TotalExpenses, decimal.NewFromInt(25))

	assert.True(t, s.Revenue().Equal(decimal.NewFromInt(200)))
	assert.True(t, s.Totals.Get(TotalExpenses).Equal(decimal.NewFromInt(25)))

	s.Status = StatusEnded
	s.Totals.Revenue = decimal.NewFromInt(180)
	assert.True(t, s.Revenue().Equal(decimal.NewFromInt(180)), "ended sessions report the frozen revenue")
}

func TestTotalValid(t *testing.T) {
	assert.True(t, TotalCreditSales.Valid())
	assert.False(t, Total("total_revenue").Valid())
	assert.False(t, Total("status").Valid())
}

func TestValidateAmount(t *testing.T) {
	require.NoError(t, ValidateAmount(decimal.Zero))
	require.NoError(t, ValidateAmount(decimal.NewFromFloat(12.5)))
	assert.ErrorIs(t, ValidateAmount(decimal.NewFromInt(-1)), ErrNegativeValue)
}
