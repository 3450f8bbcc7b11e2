package service

import (
	"context"
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/repository/memory"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active session with zero totals", func(t *testing.T) {
		f := newFixture(t)

		v, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)

		assert.Equal(t, worksession.StatusActive, v.Session.Status)
		assert.Nil(t, v.Session.EndTime)
		assert.True(t, v.Session.Totals.CashCollected.IsZero())
		assert.True(t, v.TotalRevenue.IsZero())
		assert.Empty(t, v.CashPayments)
		assert.Empty(t, v.DeliveriesCompleted)
		assert.Empty(t, v.Expenses)
	})

	t.Run("honours the supplied start time", func(t *testing.T) {
		f := newFixture(t)
		start := time.Date(2025, 3, 4, 7, 30, 0, 0, time.UTC)

		v, err := f.workSessions.Start(ctx, "agent-1", &start)
		require.NoError(t, err)
		assert.True(t, start.Equal(v.Session.StartTime))
	})

	t.Run("second start while active is a conflict", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)

		_, err = f.workSessions.Start(ctx, "agent-1", nil)
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.True(t, apperror.HasCode(err, CodeActiveSessionExists))
	})

	t.Run("agents do not block each other", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)
		_, err = f.workSessions.Start(ctx, "agent-2", nil)
		assert.NoError(t, err)
	})

	t.Run("repository conflict maps to the same error", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.sessions.Create(ctx, worksession.NewWorkSession("agent-1", time.Now())))

		err := f.sessions.Create(ctx, worksession.NewWorkSession("agent-1", time.Now()))
		assert.ErrorIs(t, err, worksession.ErrActiveExists)
	})
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()

	t.Run("no active session", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.workSessions.End(ctx, "agent-1", "", nil)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		assert.True(t, apperror.HasCode(err, CodeNoActiveSession))
	})

	t.Run("stale session id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)

		_, err = f.workSessions.End(ctx, "agent-1", uuid.NewString(), nil)
		assert.True(t, apperror.HasCode(err, CodeNoActiveSession))

		active, err := f.workSessions.Active(ctx, "agent-1")
		require.NoError(t, err)
		require.NotNil(t, active)
	})

	t.Run("freezes revenue and ignores later posts", func(t *testing.T) {
		f := newFixture(t)
		v, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)
		id := v.Session.ID

		require.NoError(t, f.workSessions.AddCashPayment(ctx, id, dec("100"), ""))
		require.NoError(t, f.workSessions.AddCreditPayment(ctx, id, dec("40"), "", worksession.MethodCheque))
		require.NoError(t, f.workSessions.AddCreditSale(ctx, id, dec("60")))
		require.NoError(t, f.workSessions.AddExpense(ctx, id, dec("15"), "fuel"))

		end := time.Now().UTC().Add(time.Minute)
		ended, err := f.workSessions.End(ctx, "agent-1", id, &end)
		require.NoError(t, err)

		assert.Equal(t, worksession.StatusEnded, ended.Session.Status)
		require.NotNil(t, ended.Session.EndTime)
		assert.True(t, end.Equal(*ended.Session.EndTime))
		assert.True(t, ended.TotalRevenue.Equal(dec("200")), ended.TotalRevenue.String())
		assert.True(t, ended.Session.Totals.Revenue.Equal(dec("200")))

		// o poster absorve a falha; a sessão encerrada não muda
		f.poster.PostPayment(ctx, payment.NewPayment(uuid.NewString(), dec("25"), "agent-1"))
		after, err := f.sessions.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, after.Totals.CashCollected.Equal(dec("100")))
		assert.Len(t, after.Payments, 2)
		assert.True(t, after.Totals.Revenue.Equal(dec("200")))

		active, err := f.workSessions.Active(ctx, "agent-1")
		require.NoError(t, err)
		assert.Nil(t, active)
	})
}

func TestLedgerPosts(t *testing.T) {
	ctx := context.Background()

	t.Run("cash payments accumulate in call order", func(t *testing.T) {
		f := newFixture(t)
		v, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)
		id := v.Session.ID

		require.NoError(t, f.workSessions.AddCashPayment(ctx, id, dec("100"), ""))
		require.NoError(t, f.workSessions.AddCashPayment(ctx, id, dec("50"), ""))

		ws, err := f.sessions.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, ws.Totals.CashCollected.Equal(dec("150")))
		require.Len(t, ws.Payments, 2)
		assert.True(t, ws.Payments[0].Amount.Equal(dec("100")))
		assert.True(t, ws.Payments[1].Amount.Equal(dec("50")))
		assert.Equal(t, worksession.MethodCash, ws.Payments[0].PaymentMethod)
	})

	t.Run("credit payment defaults to transfer", func(t *testing.T) {
		f := newFixture(t)
		v, _ := f.workSessions.Start(ctx, "agent-1", nil)

		require.NoError(t, f.workSessions.AddCreditPayment(ctx, v.Session.ID, dec("30"), "", ""))

		ws, _ := f.sessions.FindByID(ctx, v.Session.ID)
		assert.True(t, ws.Totals.CreditCollected.Equal(dec("30")))
		assert.Equal(t, worksession.MethodTransfer, ws.Payments[0].PaymentMethod)
	})

	t.Run("deliveries credit cash or credit sales by type", func(t *testing.T) {
		f := newFixture(t)
		v, _ := f.workSessions.Start(ctx, "agent-1", nil)
		id := v.Session.ID

		require.NoError(t, f.workSessions.AddDelivery(ctx, id, DeliveryPost{DeliveryID: uuid.NewString(), Amount: dec("80"), Type: worksession.DeliveryCash}))
		require.NoError(t, f.workSessions.AddDelivery(ctx, id, DeliveryPost{DeliveryID: uuid.NewString(), Amount: dec("120"), Type: worksession.DeliveryCredit}))

		ws, _ := f.sessions.FindByID(ctx, id)
		assert.True(t, ws.Totals.CashCollected.Equal(dec("80")))
		assert.True(t, ws.Totals.CreditSales.Equal(dec("120")))
		assert.Len(t, ws.Deliveries, 2)
	})

	t.Run("unknown delivery type is a bad request", func(t *testing.T) {
		f := newFixture(t)
		v, _ := f.workSessions.Start(ctx, "agent-1", nil)

		err := f.workSessions.AddDelivery(ctx, v.Session.ID, DeliveryPost{DeliveryID: uuid.NewString(), Amount: dec("1"), Type: "BARTER"})
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	})

	t.Run("negative amounts are rejected before storage", func(t *testing.T) {
		f := newFixture(t)
		v, _ := f.workSessions.Start(ctx, "agent-1", nil)
		id := v.Session.ID
		f.store.FailNext(memory.OpSessionPost, assert.AnError)

		err := f.workSessions.AddCashPayment(ctx, id, dec("-1"), "")
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAmount))

		// a falha injetada continua pendente: o repositório não foi chamado
		err = f.workSessions.AddCashPayment(ctx, id, dec("1"), "")
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})

	t.Run("expense requires a label", func(t *testing.T) {
		f := newFixture(t)
		v, _ := f.workSessions.Start(ctx, "agent-1", nil)

		err := f.workSessions.AddExpense(ctx, v.Session.ID, dec("10"), "   ")
		assert.True(t, apperror.HasCode(err, CodeEmptyLabel))
	})

	t.Run("posting to an unknown session", func(t *testing.T) {
		f := newFixture(t)

		err := f.workSessions.AddCashPayment(ctx, uuid.NewString(), dec("10"), "")
		assert.True(t, apperror.HasCode(err, CodeSessionNotActive))
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
	})

	// Vendas a crédito só incrementam o total: não existe log creditSales.
	// Lacuna conhecida, mantida de propósito.
	t.Run("credit sale has no log entry", func(t *testing.T) {
		f := newFixture(t)
		v, _ := f.workSessions.Start(ctx, "agent-1", nil)

		require.NoError(t, f.workSessions.AddCreditSale(ctx, v.Session.ID, dec("75")))

		recap, err := f.workSessions.Recap(ctx, v.Session.ID, "agent-1")
		require.NoError(t, err)
		assert.True(t, recap.Session.Totals.CreditSales.Equal(dec("75")))
		assert.Empty(t, recap.CreditSales)
		assert.Empty(t, recap.Session.Deliveries)
		assert.Empty(t, recap.Session.Payments)
	})
}

func TestRecordExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("without active session", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.workSessions.RecordExpense(ctx, "agent-1", dec("10"), "lunch")
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
		assert.True(t, apperror.HasCode(err, CodeNoActiveSession))
	})

	t.Run("returns the refreshed session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)

		v, err := f.workSessions.RecordExpense(ctx, "agent-1", dec("12.500"), "  toll ")
		require.NoError(t, err)
		assert.True(t, v.Session.Totals.Expenses.Equal(dec("12.5")))
		require.Len(t, v.Expenses, 1)
		assert.Equal(t, "toll", v.Expenses[0].Label)
		assert.NotEmpty(t, v.Expenses[0].ID)
	})
}

func TestSessionRecap(t *testing.T) {
	ctx := context.Background()

	t.Run("owner sees resolved entries", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Ben Ali", "500")
		v, err := f.workSessions.Start(ctx, "agent-1", nil)
		require.NoError(t, err)

		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("200"), Method: "check"})
		require.NoError(t, err)

		recap, err := f.workSessions.Recap(ctx, v.Session.ID, "agent-1")
		require.NoError(t, err)
		require.Len(t, recap.CreditPayments, 1)
		assert.Empty(t, recap.CashPayments)
		assert.Equal(t, p.ID, recap.CreditPayments[0].ID)
		assert.Equal(t, c.ID, recap.CreditPayments[0].ClientID)
		assert.Equal(t, "Garage Ben Ali", recap.CreditPayments[0].ClientName)
		assert.Equal(t, worksession.MethodCheque, recap.CreditPayments[0].Method)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		f := newFixture(t)
		v, _ := f.workSessions.Start(ctx, "agent-1", nil)

		_, err := f.workSessions.Recap(ctx, v.Session.ID, "agent-2")
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("unknown or malformed id is not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.workSessions.Recap(ctx, uuid.NewString(), "agent-1")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

		_, err = f.workSessions.Recap(ctx, "not-an-id", "agent-1")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestSessionHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		start := base.AddDate(0, 0, i)
		_, err := f.workSessions.Start(ctx, "agent-1", &start)
		require.NoError(t, err)
		end := start.Add(8 * time.Hour)
		_, err = f.workSessions.End(ctx, "agent-1", "", &end)
		require.NoError(t, err)
	}
	_, err := f.workSessions.Start(ctx, "agent-2", &base)
	require.NoError(t, err)

	t.Run("sorted by start time descending", func(t *testing.T) {
		page, err := f.workSessions.History(ctx, "agent-1", HistoryQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, DefaultPageSize, page.Limit)
		require.Len(t, page.Results, 3)
		assert.True(t, page.Results[0].Session.StartTime.After(page.Results[1].Session.StartTime))
		assert.Equal(t, 480, page.Results[0].DurationMinutes)
	})

	t.Run("clamps pagination", func(t *testing.T) {
		page, err := f.workSessions.History(ctx, "agent-1", HistoryQuery{PageRequest: PageRequest{Page: -3, Limit: 500}})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, MaxPageSize, page.Limit)

		// limite negativo vira 1, não o padrão
		page, err = f.workSessions.History(ctx, "agent-1", HistoryQuery{PageRequest: PageRequest{Limit: -5}})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Limit)
		assert.Len(t, page.Results, 1)

		page, err = f.workSessions.History(ctx, "agent-1", HistoryQuery{PageRequest: PageRequest{Page: 2, Limit: 2}})
		require.NoError(t, err)
		assert.Len(t, page.Results, 1)
		assert.Equal(t, 3, page.Total)
	})

	t.Run("filters by start time range", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		page, err := f.workSessions.History(ctx, "agent-1", HistoryQuery{From: &from})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})
}
