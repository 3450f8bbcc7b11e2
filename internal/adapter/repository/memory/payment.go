package memory

import (
	"context"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	s *Store
}

func NewPaymentRepository(s *Store) *PaymentRepository {
	return &PaymentRepository{s: s}
}

func (r *PaymentRepository) Create(_ context.Context, p *payment.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(OpPaymentCreate); err != nil {
		return err
	}
	r.s.d.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id string) (*payment.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.payments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	out := r.hydrate(p)
	return &out, nil
}

func (r *PaymentRepository) List(_ context.Context, f payment.ListFilter) ([]*payment.Payment, int, payment.Summary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	summary := payment.Summary{TotalCollected: decimal.Zero, Pending: decimal.Zero}
	var out []*payment.Payment
	for _, p := range r.s.d.payments {
		if (f.ClientID != "" && p.ClientID != f.ClientID) ||
			(f.Method != "" && p.Method != f.Method) ||
			(f.Status != "" && p.Status != f.Status) ||
			(f.From != nil && p.PaidAt.Before(*f.From)) ||
			(f.To != nil && p.PaidAt.After(*f.To)) {
			continue
		}
		switch p.Status {
		case payment.StatusCompleted:
			summary.TotalCollected = summary.TotalCollected.Add(p.Amount)
		case payment.StatusPending:
			summary.Pending = summary.Pending.Add(p.Amount)
		}
		h := r.hydrate(p)
		out = append(out, &h)
	}
	sortBy(out, func(a, b *payment.Payment) bool { return a.PaidAt.After(b.PaidAt) })
	return paginate(out, f.Limit, f.Offset), len(out), summary, nil
}

func (r *PaymentRepository) Update(_ context.Context, p *payment.Payment, from payment.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.payments[p.ID]
	if !ok {
		return payment.ErrNotFound
	}
	if existing.Status != from {
		return payment.ErrStatusChanged
	}
	existing.DeliveryID = p.DeliveryID
	existing.Currency = p.Currency
	existing.Method = p.Method
	existing.Status = p.Status
	existing.PaidAt = p.PaidAt
	existing.Notes = p.Notes
	existing.UpdatedAt = time.Now().UTC()
	r.s.d.payments[p.ID] = existing
	return nil
}

func (r *PaymentRepository) Delete(_ context.Context, id string) (payment.Status, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.payments[id]
	if !ok {
		return "", payment.ErrNotFound
	}
	delete(r.s.d.payments, id)
	return p.Status, nil
}

func (r *PaymentRepository) hydrate(p payment.Payment) payment.Payment {
	if c, ok := r.s.d.clients[p.ClientID]; ok {
		p.ClientName = c.Name
	}
	return p
}
