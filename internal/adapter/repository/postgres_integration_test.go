package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Testes contra um PostgreSQL real; rodam só com TEST_DATABASE_URL definido
func newTestDB(t *testing.T) *database.PostgresDB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL não definido")
	}

	m, err := database.NewMigrator(url)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return database.NewFromPool(pool, logger.NewNop())
}

func seedAgent(t *testing.T, db *database.PostgresDB) *user.User {
	t.Helper()
	u, err := user.NewUser(uuid.NewString()+"@reborn.test", "secret123", "Agent", "Test", user.RoleDelivery)
	require.NoError(t, err)
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func TestPostgresWorkSessionLedger(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewWorkSessionRepository(db)
	agent := seedAgent(t, db)

	ws := worksession.NewWorkSession(agent.ID, time.Time{})
	require.NoError(t, repo.Create(ctx, ws))

	err := repo.Create(ctx, worksession.NewWorkSession(agent.ID, time.Time{}))
	assert.ErrorIs(t, err, worksession.ErrActiveExists)

	entry := &worksession.Entry{
		ID:        uuid.NewString(),
		Kind:      worksession.EntryExpense,
		Amount:    decimal.RequireFromString("7.250"),
		Label:     "Péage",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Post(ctx, ws.ID, worksession.TotalExpenses, entry.Amount, entry))
	require.NoError(t, repo.Post(ctx, ws.ID, worksession.TotalCreditSales, decimal.NewFromInt(40), nil))

	active, err := repo.FindActiveByAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.True(t, active.Totals.Expenses.Equal(decimal.RequireFromString("7.25")))
	assert.True(t, active.Totals.CreditSales.Equal(decimal.NewFromInt(40)))
	require.Len(t, active.Expenses, 1)
	assert.Equal(t, "Péage", active.Expenses[0].Label)

	require.NoError(t, repo.End(ctx, ws.ID, time.Now().UTC()))
	assert.ErrorIs(t, repo.End(ctx, ws.ID, time.Now().UTC()), worksession.ErrNotActive)
	assert.ErrorIs(t, repo.Post(ctx, ws.ID, worksession.TotalExpenses, decimal.NewFromInt(1), nil), worksession.ErrNotActive)

	ended, err := repo.FindByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, worksession.StatusEnded, ended.Status)
	assert.True(t, ended.Totals.Revenue.Equal(decimal.NewFromInt(40)))

	_, err = repo.FindActiveByAgent(ctx, agent.ID)
	assert.ErrorIs(t, err, worksession.ErrNotFound)
}

func TestPostgresSettleDebtGuard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewClientRepository(db)
	agent := seedAgent(t, db)

	c, err := client.NewClient("Lavage Sfax", agent.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.AddDebt(ctx, c.ID, decimal.NewFromInt(100)))

	err = db.WithinTransaction(ctx, func(ctx context.Context) error {
		return repo.SettleDebt(ctx, c.ID, decimal.NewFromInt(150))
	})
	assert.ErrorIs(t, err, client.ErrInsufficientDebt)

	require.NoError(t, repo.SettleDebt(ctx, c.ID, decimal.NewFromInt(60)))
	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalDebt.Equal(decimal.NewFromInt(40)))

	assert.ErrorIs(t, repo.SettleDebt(ctx, uuid.NewString(), decimal.NewFromInt(1)), client.ErrNotFound)
}

func TestPostgresDeliveryStatusGuards(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	agent := seedAgent(t, db)

	c, err := client.NewClient("Garage Atlas", agent.ID)
	require.NoError(t, err)
	require.NoError(t, NewClientRepository(db).Create(ctx, c))
	p, err := product.NewProduct("Graisse", "GR-"+uuid.NewString()[:8], decimal.NewFromInt(10), decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, NewProductRepository(db).Create(ctx, p))

	repo := NewDeliveryRepository(db)
	d := delivery.NewDelivery(c.ID, agent.ID, []delivery.Line{{ProductID: p.ID, Quantity: decimal.NewFromInt(2), UnitPrice: p.Price}}, time.Time{})
	require.NoError(t, repo.Create(ctx, d))

	now := time.Now().UTC()
	done := delivery.StatusChange{Status: delivery.StatusDelivered, CompletedAt: &now, DeliveryDate: &now}
	require.NoError(t, repo.UpdateStatus(ctx, d.ID, delivery.StatusPending, done))

	// segunda conclusão a partir de pending é barrada
	assert.ErrorIs(t, repo.UpdateStatus(ctx, d.ID, delivery.StatusPending, done), delivery.ErrStatusChanged)
	assert.ErrorIs(t, repo.Delete(ctx, d.ID), delivery.ErrImmutable)
	assert.ErrorIs(t, repo.Update(ctx, d), delivery.ErrImmutable)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.NewString(), delivery.StatusPending, done), delivery.ErrNotFound)
}

func TestPostgresPaymentGuards(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	agent := seedAgent(t, db)

	c, err := client.NewClient("Lavage Nour", agent.ID)
	require.NoError(t, err)
	require.NoError(t, NewClientRepository(db).Create(ctx, c))

	repo := NewPaymentRepository(db)
	pay := payment.NewPayment(c.ID, decimal.NewFromInt(80), agent.ID)
	require.NoError(t, repo.Create(ctx, pay))

	pay.Status = payment.StatusCancelled
	require.NoError(t, repo.Update(ctx, pay, payment.StatusCompleted))
	assert.ErrorIs(t, repo.Update(ctx, pay, payment.StatusCompleted), payment.ErrStatusChanged)

	status, err := repo.Delete(ctx, pay.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCancelled, status)

	_, err = repo.Delete(ctx, pay.ID)
	assert.ErrorIs(t, err, payment.ErrNotFound)
}
