package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("amount above debt is rejected", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "300")

		_, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("500")})
		require.Error(t, err)
		assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
		assert.True(t, apperror.HasCode(err, CodeAmountExceedsDebt))
		assert.Contains(t, err.Error(), "Amount (500) exceeds client debt (300)")

		after, _ := f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("300")))
	})

	t.Run("full settlement then delete restores debt", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "300")

		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("300")})
		require.NoError(t, err)
		assert.Equal(t, payment.MethodCash, p.Method)
		assert.Equal(t, payment.StatusCompleted, p.Status)
		assert.Equal(t, payment.DefaultCurrency, p.Currency)
		assert.Equal(t, "agent-1", p.ReceivedBy)

		after, _ := f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.IsZero())

		require.NoError(t, f.paymentSvc.Delete(ctx, p.ID))
		after, _ = f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("300")))
	})

	t.Run("guarded settle catches a concurrent debt change", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "300")
		// outro pagamento é confirmado entre a checagem e a transação
		clients := &racingClients{Repository: f.clients, hook: func() {
			require.NoError(t, f.clients.SettleDebt(ctx, c.ID, dec("250")))
		}}
		svc := NewPaymentService(f.tx, f.payments, clients, f.poster, logger.NewNop(), f.metrics)

		_, err := svc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("100")})
		assert.True(t, apperror.HasCode(err, CodeAmountExceedsDebt))
		assert.Contains(t, err.Error(), "client debt (50)")

		after, _ := f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("50")))
		_, total, _, _ := f.payments.List(ctx, payment.ListFilter{})
		assert.Zero(t, total)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "300")

		_, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("0")})
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAmount))

		_, err = f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: uuid.NewString(), Amount: dec("1")})
		assert.True(t, apperror.HasCode(err, CodeClientNotFound))

		_, err = f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("1"), Method: "crypto"})
		assert.True(t, apperror.HasCode(err, CodeInvalidMethod))

		_, err = f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("1"), Status: "cancelled"})
		assert.True(t, apperror.HasCode(err, CodeInvalidStatus))
	})
}

func TestPaymentSessionPosting(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		method     string
		wantCash   string
		wantCredit string
		wantMethod worksession.PaymentMethod
	}{
		{method: "cash", wantCash: "40", wantCredit: "0", wantMethod: worksession.MethodCash},
		{method: "check", wantCash: "0", wantCredit: "40", wantMethod: worksession.MethodCheque},
		{method: "transfer", wantCash: "0", wantCredit: "40", wantMethod: worksession.MethodTransfer},
		{method: "card", wantCash: "0", wantCredit: "40", wantMethod: worksession.MethodTransfer},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			f := newFixture(t)
			c := f.seedClient(t, "Garage Atlas", "100")
			v, err := f.workSessions.Start(ctx, "agent-1", nil)
			require.NoError(t, err)

			_, err = f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("40"), Method: tc.method})
			require.NoError(t, err)

			ws, err := f.sessions.FindByID(ctx, v.Session.ID)
			require.NoError(t, err)
			assert.True(t, ws.Totals.CashCollected.Equal(dec(tc.wantCash)))
			assert.True(t, ws.Totals.CreditCollected.Equal(dec(tc.wantCredit)))
			require.Len(t, ws.Payments, 1)
			assert.Equal(t, tc.wantMethod, ws.Payments[0].PaymentMethod)
		})
	}

	t.Run("receivedBy selects the session", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "100")
		_, err := f.workSessions.Start(ctx, "collector-7", nil)
		require.NoError(t, err)

		_, err = f.paymentSvc.Create(ctx, "admin-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("10"), ReceivedBy: "collector-7"})
		require.NoError(t, err)

		active, err := f.workSessions.Active(ctx, "collector-7")
		require.NoError(t, err)
		assert.True(t, active.Session.Totals.CashCollected.Equal(dec("10")))
	})

	t.Run("no active session drops the post but keeps the payment", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "100")

		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("10")})
		require.NoError(t, err)
		_, err = f.paymentSvc.Get(ctx, p.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1.0, counterValue(t, f, "reborn_session_posts_total",
			map[string]string{"kind": "payment", "result": "dropped"}))
	})
}

func TestUpdatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling restores debt once", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "200")
		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("80")})
		require.NoError(t, err)

		cancelled := "cancelled"
		got, err := f.paymentSvc.Update(ctx, p.ID, UpdatePaymentInput{Status: &cancelled})
		require.NoError(t, err)
		assert.Equal(t, payment.StatusCancelled, got.Status)

		_, err = f.paymentSvc.Update(ctx, p.ID, UpdatePaymentInput{Status: &cancelled})
		require.NoError(t, err)

		after, _ := f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("200")), after.TotalDebt.String())

		// excluir um pagamento cancelado não devolve a dívida de novo
		require.NoError(t, f.paymentSvc.Delete(ctx, p.ID))
		after, _ = f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("200")))
	})

	t.Run("cancelled payment cannot be reopened", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "200")
		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("80")})
		require.NoError(t, err)

		cancelled, completed := "cancelled", "completed"
		_, err = f.paymentSvc.Update(ctx, p.ID, UpdatePaymentInput{Status: &cancelled})
		require.NoError(t, err)

		_, err = f.paymentSvc.Update(ctx, p.ID, UpdatePaymentInput{Status: &completed})
		assert.True(t, apperror.HasCode(err, CodePaymentCancelled))
	})

	t.Run("metadata changes leave debt alone", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "200")
		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("80")})
		require.NoError(t, err)

		notes, method := "reçu 42", "check"
		got, err := f.paymentSvc.Update(ctx, p.ID, UpdatePaymentInput{Notes: &notes, Method: &method})
		require.NoError(t, err)
		assert.Equal(t, notes, got.Notes)
		assert.Equal(t, payment.MethodCheck, got.Method)

		after, _ := f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("120")))
	})

	t.Run("concurrent cancellations restore debt once", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "300")
		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("300")})
		require.NoError(t, err)

		// as duas chamadas leem "completed" antes de qualquer escrita
		payments := &barrierPayments{Repository: f.payments, barrier: newReadBarrier(2)}
		svc := NewPaymentService(f.tx, payments, f.clients, f.poster, logger.NewNop(), f.metrics)

		cancelled := "cancelled"
		errs := runConcurrently(2, func() error {
			_, err := svc.Update(ctx, p.ID, UpdatePaymentInput{Status: &cancelled})
			return err
		})

		var ok int
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.True(t, apperror.HasCode(err, CodePaymentStatusChanged), err.Error())
			assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		}
		assert.Equal(t, 1, ok)

		after, _ := f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("300")), after.TotalDebt.String())
	})

	t.Run("delete racing cancellation restores debt once", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedClient(t, "Garage Atlas", "300")
		p, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("300")})
		require.NoError(t, err)

		payments := &barrierPayments{Repository: f.payments, barrier: newReadBarrier(2)}
		svc := NewPaymentService(f.tx, payments, f.clients, f.poster, logger.NewNop(), f.metrics)

		cancelled := "cancelled"
		var mu sync.Mutex
		var n int
		runConcurrently(2, func() error {
			mu.Lock()
			first := n == 0
			n++
			mu.Unlock()
			if first {
				return svc.Delete(ctx, p.ID)
			}
			_, err := svc.Update(ctx, p.ID, UpdatePaymentInput{Status: &cancelled})
			return err
		})

		after, _ := f.clients.FindByID(ctx, c.ID)
		assert.True(t, after.TotalDebt.Equal(dec("300")), after.TotalDebt.String())
		_, err = f.payments.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, payment.ErrNotFound)
	})
}

func TestListPayments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c := f.seedClient(t, "Garage Atlas", "1000")
	jan := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 15, 10, 0, 0, 0, time.UTC)

	_, err := f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("100"), PaidAt: &jan})
	require.NoError(t, err)
	_, err = f.paymentSvc.Create(ctx, "agent-1", CreatePaymentInput{ClientID: c.ID, Amount: dec("50"), PaidAt: &feb, Status: "pending"})
	require.NoError(t, err)

	page, err := f.paymentSvc.List(ctx, PaymentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Items.Total)
	require.Len(t, page.Items.Results, 2)
	assert.True(t, page.Items.Results[0].PaidAt.Equal(feb))
	assert.True(t, page.Summary.TotalCollected.Equal(dec("100")), page.Summary.TotalCollected.String())
	assert.True(t, page.Summary.Pending.Equal(dec("50")))

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := f.paymentSvc.ByDateRange(ctx, &from, nil)
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	byClient, err := f.paymentSvc.ByClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	_, err = f.paymentSvc.List(ctx, PaymentQuery{Method: "crypto"})
	assert.True(t, apperror.HasCode(err, CodeInvalidMethod))
}

// racingClients executa hook logo após a primeira leitura do cliente
type racingClients struct {
	client.Repository
	once sync.Once
	hook func()
}

func (r *racingClients) FindByID(ctx context.Context, id string) (*client.Client, error) {
	c, err := r.Repository.FindByID(ctx, id)
	r.once.Do(r.hook)
	return c, err
}
