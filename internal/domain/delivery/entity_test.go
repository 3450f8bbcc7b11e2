package delivery

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseStatusAcceptsAliases(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"pending", StatusPending, true},
		{"in_transit", StatusInProgress, true},
		{"completed", StatusDelivered, true},
		{" Delivered ", StatusDelivered, true},
		{"cancelled", StatusCancelled, true},
		{"lost", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseStatus(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusInProgress))
	assert.True(t, StatusPending.CanTransitionTo(StatusDelivered))
	assert.True(t, StatusInProgress.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusInProgress.CanTransitionTo(StatusPending))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.True(t, StatusDelivered.IsTerminal())
}

func TestNewDeliveryFreezesTotal(t *testing.T) {
	lines := []Line{
		{ProductID: "p1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("100.500")},
		{ProductID: "p2", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(33)},
	}

	d := NewDelivery("c1", "agent-1", lines, time.Time{})

	assert.True(t, d.TotalAmount.Equal(decimal.RequireFromString("300")))
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, PaymentCash, d.PaymentType)
	assert.False(t, d.PlannedDate.IsZero())
	assert.Equal(t, "agent-1", d.Agent())

	d.AssignedTo = "driver-2"
	assert.Equal(t, "agent-1", d.Agent())

	d.CreatedBy = ""
	assert.Equal(t, "driver-2", d.Agent())
}
