package memory

import (
	"context"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
)

type DeliveryRepository struct {
	s *Store
}

func NewDeliveryRepository(s *Store) *DeliveryRepository {
	return &DeliveryRepository{s: s}
}

func (r *DeliveryRepository) Create(_ context.Context, d *delivery.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(OpDeliveryCreate); err != nil {
		return err
	}
	for _, l := range d.Lines {
		if _, ok := r.s.d.products[l.ProductID]; !ok {
			return product.ErrNotFound
		}
	}
	r.s.d.deliveries[d.ID] = cloneDelivery(*d)
	return nil
}

func (r *DeliveryRepository) FindByID(_ context.Context, id string) (*delivery.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.d.deliveries[id]
	if !ok {
		return nil, delivery.ErrNotFound
	}
	out := r.hydrate(d)
	return &out, nil
}

func (r *DeliveryRepository) List(_ context.Context, f delivery.ListFilter) ([]*delivery.Delivery, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*delivery.Delivery
	for _, d := range r.s.d.deliveries {
		if (f.ClientID != "" && d.ClientID != f.ClientID) ||
			(f.CircuitID != "" && d.CircuitID != f.CircuitID) ||
			(f.Status != "" && d.Status != f.Status) {
			continue
		}
		if f.Date != nil {
			day := f.Date.UTC().Truncate(24 * time.Hour)
			if d.PlannedDate.Before(day) || !d.PlannedDate.Before(day.Add(24*time.Hour)) {
				continue
			}
		} else if (f.From != nil && d.PlannedDate.Before(*f.From)) || (f.To != nil && d.PlannedDate.After(*f.To)) {
			continue
		}
		h := r.hydrate(d)
		out = append(out, &h)
	}
	sortBy(out, func(a, b *delivery.Delivery) bool { return a.PlannedDate.After(b.PlannedDate) })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *DeliveryRepository) Update(_ context.Context, d *delivery.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.deliveries[d.ID]
	if !ok {
		return delivery.ErrNotFound
	}
	if existing.Status == delivery.StatusDelivered {
		return delivery.ErrImmutable
	}
	existing.CircuitID = d.CircuitID
	existing.AssignedTo = d.AssignedTo
	existing.PlannedDate = d.PlannedDate
	existing.ProofPhoto = d.ProofPhoto
	existing.Notes = d.Notes
	existing.PaymentType = d.PaymentType
	existing.UpdatedAt = time.Now().UTC()
	r.s.d.deliveries[d.ID] = existing
	return nil
}

func (r *DeliveryRepository) UpdateStatus(_ context.Context, id string, from delivery.Status, change delivery.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(OpDeliveryUpdateStat); err != nil {
		return err
	}
	d, ok := r.s.d.deliveries[id]
	if !ok {
		return delivery.ErrNotFound
	}
	if d.Status != from {
		return delivery.ErrStatusChanged
	}
	d.Status = change.Status
	if change.CompletedAt != nil {
		d.CompletedAt = change.CompletedAt
	}
	if change.DeliveryDate != nil {
		d.DeliveryDate = change.DeliveryDate
	}
	if change.ProofPhoto != "" {
		d.ProofPhoto = change.ProofPhoto
	}
	d.UpdatedAt = time.Now().UTC()
	r.s.d.deliveries[id] = d
	return nil
}

func (r *DeliveryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.d.deliveries[id]
	if !ok {
		return delivery.ErrNotFound
	}
	if d.Status == delivery.StatusDelivered {
		return delivery.ErrImmutable
	}
	delete(r.s.d.deliveries, id)
	return nil
}

// hydrate preenche os nomes de cliente e produto; chamado com mu travado
func (r *DeliveryRepository) hydrate(d delivery.Delivery) delivery.Delivery {
	d = cloneDelivery(d)
	if c, ok := r.s.d.clients[d.ClientID]; ok {
		d.ClientName = c.Name
	}
	for i := range d.Lines {
		if p, ok := r.s.d.products[d.Lines[i].ProductID]; ok {
			d.Lines[i].ProductName = p.Name
		}
	}
	return d
}
