package service

import (
	"context"
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/repository/memory"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/planning"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestProductService(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.NewProductRepository(memory.NewStore()))

	p, err := svc.Create(ctx, ProductInput{Name: strPtr("Huile 5W30"), Code: strPtr("H-530"), Price: decPtr("32.500"), Stock: decPtr("40")})
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.Equal(t, product.DefaultUnit, p.Unit)
	assert.Equal(t, "H-530", p.SKU)

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.Create(ctx, ProductInput{Name: strPtr("Autre"), Code: strPtr("H-530")})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := svc.Create(ctx, ProductInput{Name: strPtr("X"), Price: decPtr("-1")})
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, "price", appErr.Details[0].Field)
	})

	t.Run("stock updates", func(t *testing.T) {
		got, err := svc.SetStock(ctx, p.ID, dec("12"))
		require.NoError(t, err)
		assert.True(t, got.Stock.Equal(dec("12")))

		_, err = svc.SetStock(ctx, p.ID, dec("-1"))
		assert.True(t, apperror.HasCode(err, CodeInvalidStock))
	})

	t.Run("deactivate", func(t *testing.T) {
		got, err := svc.Deactivate(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)

		active := true
		page, err := svc.List(ctx, ProductQuery{Active: &active})
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})

	t.Run("categories", func(t *testing.T) {
		assert.NotEmpty(t, svc.Categories())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, p.ID))
		_, err := svc.Get(ctx, p.ID)
		assert.True(t, apperror.HasCode(err, CodeProductNotFound))
	})
}

func TestCircuitService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clients := memory.NewClientRepository(store)
	svc := NewCircuitService(memory.NewCircuitRepository(store), clients)
	clientSvc := NewClientService(clients, logger.NewNop())

	c, err := svc.Create(ctx, admin, CircuitInput{Name: strPtr("Tunis Nord"), Zone: strPtr("north"), AssignedTo: strPtr(commercial.ID)})
	require.NoError(t, err)

	t.Run("assignee can read, others cannot", func(t *testing.T) {
		_, err := svc.Get(ctx, commercial, c.ID)
		assert.NoError(t, err)

		_, err = svc.Get(ctx, otherAgent, c.ID)
		assert.True(t, apperror.HasCode(err, CodeCircuitNotFound))

		page, err := svc.List(ctx, otherAgent, CircuitQuery{})
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})

	t.Run("clients of the circuit", func(t *testing.T) {
		linked, err := clientSvc.Create(ctx, otherAgent, ClientInput{Name: strPtr("Zeta"), CircuitID: strPtr(c.ID)})
		require.NoError(t, err)
		listed, err := clientSvc.Create(ctx, admin, ClientInput{Name: strPtr("Alpha")})
		require.NoError(t, err)
		_, err = svc.Update(ctx, admin, c.ID, CircuitInput{ClientIDs: []string{listed.ID}})
		require.NoError(t, err)

		got, err := svc.Clients(ctx, commercial, c.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, listed.ID, got[0].ID)
		assert.Equal(t, linked.ID, got[1].ID)
	})

	t.Run("validation and duplicates", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, CircuitInput{Name: strPtr("")})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = svc.Create(ctx, admin, CircuitInput{Name: strPtr("A"), Code: strPtr("CIR-1")})
		require.NoError(t, err)
		_, err = svc.Create(ctx, admin, CircuitInput{Name: strPtr("B"), Code: strPtr("CIR-1")})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin, c.ID))
		_, err := svc.Get(ctx, admin, c.ID)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestPlanningService(t *testing.T) {
	ctx := context.Background()
	svc := NewPlanningService(memory.NewPlanningRepository(memory.NewStore()))
	day := time.Date(2025, 4, 7, 14, 30, 0, 0, time.UTC)

	p, err := svc.Create(ctx, admin.ID, PlanningInput{
		CommercialID: strPtr(commercial.ID),
		Date:         &day,
		Title:        strPtr("Tournée lundi"),
		Stops:        []planning.Stop{{ClientID: "c-1", Order: 1}, {ClientID: "c-2", Order: 2, Action: "PAYMENT"}},
	})
	require.NoError(t, err)
	assert.Equal(t, planning.StatusScheduled, p.Status)
	assert.True(t, p.Date.Equal(time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)))
	require.Len(t, p.Stops, 2)
	assert.Equal(t, planning.ActionTask, p.Stops[0].Action)
	assert.Equal(t, planning.ActionPayment, p.Stops[1].Action)

	t.Run("one planning per commercial per day", func(t *testing.T) {
		later := day.Add(3 * time.Hour)
		_, err := svc.Create(ctx, admin.ID, PlanningInput{CommercialID: strPtr(commercial.ID), Date: &later})
		assert.True(t, apperror.HasCode(err, CodeDuplicateSchedule))
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

		_, err = svc.Create(ctx, admin.ID, PlanningInput{CommercialID: strPtr(otherAgent.ID), Date: &later})
		assert.NoError(t, err)
	})

	t.Run("plannings without commercial never collide", func(t *testing.T) {
		_, err := svc.Create(ctx, admin.ID, PlanningInput{Date: &day})
		require.NoError(t, err)
		_, err = svc.Create(ctx, admin.ID, PlanningInput{Date: &day})
		assert.NoError(t, err)
	})

	t.Run("by date and range", func(t *testing.T) {
		got, err := svc.ByDate(ctx, day)
		require.NoError(t, err)
		assert.Len(t, got, 4)

		page, err := svc.List(ctx, PlanningQuery{CommercialID: commercial.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("status and action validation", func(t *testing.T) {
		_, err := svc.Update(ctx, p.ID, PlanningInput{Status: strPtr("skipped")})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = svc.Update(ctx, p.ID, PlanningInput{Stops: []planning.Stop{{ClientID: "c-1", Action: "dance"}}})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		got, err := svc.Update(ctx, p.ID, PlanningInput{Status: strPtr("completed")})
		require.NoError(t, err)
		assert.Equal(t, planning.StatusCompleted, got.Status)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, p.ID))
		_, err := svc.Get(ctx, p.ID)
		assert.True(t, apperror.HasCode(err, CodePlanningNotFound))
	})
}
