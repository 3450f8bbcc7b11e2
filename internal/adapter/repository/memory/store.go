// Package memory implementa os repositórios em memória usados nos testes de
// serviço. O Transactor desfaz todas as escritas quando a função falha, e
// falhas podem ser injetadas por operação.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/circuit"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/planning"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
)

// Operações com falha injetável
const (
	OpClientAddDebt      = "clients.AddDebt"
	OpClientSettleDebt   = "clients.SettleDebt"
	OpDeliveryCreate     = "deliveries.Create"
	OpDeliveryUpdateStat = "deliveries.UpdateStatus"
	OpPaymentCreate      = "payments.Create"
	OpSessionPost        = "worksessions.Post"
)

type data struct {
	users      map[string]user.User
	clients    map[string]client.Client
	products   map[string]product.Product
	deliveries map[string]delivery.Delivery
	payments   map[string]payment.Payment
	sessions   map[string]worksession.WorkSession
	circuits   map[string]circuit.Circuit
	plannings  map[string]planning.Planning
}

// Store guarda o estado compartilhado por todos os repositórios em memória
type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	d        data
	failures map[string]error
}

// NewStore cria um Store vazio
func NewStore() *Store {
	return &Store{
		d: data{
			users:      map[string]user.User{},
			clients:    map[string]client.Client{},
			products:   map[string]product.Product{},
			deliveries: map[string]delivery.Delivery{},
			payments:   map[string]payment.Payment{},
			sessions:   map[string]worksession.WorkSession{},
			circuits:   map[string]circuit.Circuit{},
			plannings:  map[string]planning.Planning{},
		},
		failures: map[string]error{},
	}
}

// FailNext faz a próxima chamada da operação devolver err
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// takeFailure consome a falha injetada; chamado com mu travado
func (s *Store) takeFailure(op string) error {
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

func (s *Store) snapshot() data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return data{
		users:      cloneMap(s.d.users, func(v user.User) user.User { return v }),
		clients:    cloneMap(s.d.clients, cloneClient),
		products:   cloneMap(s.d.products, func(v product.Product) product.Product { return v }),
		deliveries: cloneMap(s.d.deliveries, cloneDelivery),
		payments:   cloneMap(s.d.payments, func(v payment.Payment) payment.Payment { return v }),
		sessions:   cloneMap(s.d.sessions, cloneSession),
		circuits:   cloneMap(s.d.circuits, cloneCircuit),
		plannings:  cloneMap(s.d.plannings, clonePlanning),
	}
}

func (s *Store) restore(d data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d = d
}

type txKey struct{}

// Transactor implementa transaction.Transactor com snapshot e restauração
type Transactor struct {
	store *Store
}

func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// WithinTransaction implementa transaction.Transactor.WithinTransaction
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func cloneMap[V any](in map[string]V, clone func(V) V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = clone(v)
	}
	return out
}

func cloneClient(c client.Client) client.Client {
	if c.Location != nil {
		loc := *c.Location
		c.Location = &loc
	}
	return c
}

func cloneDelivery(d delivery.Delivery) delivery.Delivery {
	d.Lines = append([]delivery.Line{}, d.Lines...)
	return d
}

func cloneSession(s worksession.WorkSession) worksession.WorkSession {
	s.Deliveries = append([]worksession.Entry{}, s.Deliveries...)
	s.Payments = append([]worksession.Entry{}, s.Payments...)
	s.Expenses = append([]worksession.Entry{}, s.Expenses...)
	return s
}

func cloneCircuit(c circuit.Circuit) circuit.Circuit {
	c.ClientIDs = append([]string{}, c.ClientIDs...)
	c.Stops = append([]circuit.Stop{}, c.Stops...)
	return c
}

func clonePlanning(p planning.Planning) planning.Planning {
	p.ClientIDs = append([]string{}, p.ClientIDs...)
	p.Stops = append([]planning.Stop{}, p.Stops...)
	return p
}

// paginate aplica offset e limit sobre uma fatia já ordenada
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func sortBy[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
