package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/repository/memory"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	store      *memory.Store
	tx         *memory.Transactor
	sessions   *memory.WorkSessionRepository
	clients    *memory.ClientRepository
	products   *memory.ProductRepository
	deliveries *memory.DeliveryRepository
	payments   *memory.PaymentRepository
	metrics    *metrics.Metrics
	logs       *observer.ObservedLogs

	workSessions WorkSessionService
	poster       SessionPoster
	deliverySvc  DeliveryService
	paymentSvc   PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	log := logger.NewFromZap(zap.New(core))

	store := memory.NewStore()
	tx := memory.NewTransactor(store)
	f := &fixture{
		store:      store,
		tx:         tx,
		sessions:   memory.NewWorkSessionRepository(store),
		clients:    memory.NewClientRepository(store),
		products:   memory.NewProductRepository(store),
		deliveries: memory.NewDeliveryRepository(store),
		payments:   memory.NewPaymentRepository(store),
		metrics:    metrics.New(),
		logs:       logs,
	}
	f.workSessions = NewWorkSessionService(f.sessions, f.sessions, log)
	f.poster = NewSessionPoster(f.sessions, f.workSessions, log, f.metrics)
	f.deliverySvc = NewDeliveryService(tx, f.deliveries, f.clients, f.products, f.poster, log, f.metrics)
	f.paymentSvc = NewPaymentService(tx, f.payments, f.clients, f.poster, log, f.metrics)
	return f
}

func (f *fixture) seedClient(t *testing.T, name, debt string) *client.Client {
	t.Helper()
	c, err := client.NewClient(name, "admin-1")
	require.NoError(t, err)
	c.TotalDebt = decimal.RequireFromString(debt)
	f.store.SetClient(*c)
	return c
}

func (f *fixture) seedProduct(t *testing.T, name, price, stock string) *product.Product {
	t.Helper()
	p, err := product.NewProduct(name, "", decimal.RequireFromString(price), decimal.RequireFromString(stock))
	require.NoError(t, err)
	f.store.SetProduct(*p)
	return p
}

var zeroTime time.Time

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// counterValue lê um contador do registry sem depender dos coletores internos
func counterValue(t *testing.T, f *fixture, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.metrics.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

// readBarrier segura as primeiras n leituras até que todas tenham chegado,
// de modo que concorrentes vejam o mesmo estado antes de escrever
type readBarrier struct {
	mu      sync.Mutex
	waiting int
	release chan struct{}
}

func newReadBarrier(n int) *readBarrier {
	return &readBarrier{waiting: n, release: make(chan struct{})}
}

func (b *readBarrier) wait() {
	b.mu.Lock()
	if b.waiting == 0 {
		b.mu.Unlock()
		return
	}
	b.waiting--
	if b.waiting == 0 {
		close(b.release)
	}
	b.mu.Unlock()
	<-b.release
}

type barrierDeliveries struct {
	delivery.Repository
	barrier *readBarrier
}

func (r *barrierDeliveries) FindByID(ctx context.Context, id string) (*delivery.Delivery, error) {
	d, err := r.Repository.FindByID(ctx, id)
	r.barrier.wait()
	return d, err
}

type barrierPayments struct {
	payment.Repository
	barrier *readBarrier
}

func (r *barrierPayments) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := r.Repository.FindByID(ctx, id)
	r.barrier.wait()
	return p, err
}

// runConcurrently dispara n chamadas ao mesmo tempo e devolve os erros
func runConcurrently(n int, fn func() error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn()
		}(i)
	}
	wg.Wait()
	return errs
}
