package memory

import (
	"context"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/shopspring/decimal"
)

type ProductRepository struct {
	s *Store
}

func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

func (r *ProductRepository) Create(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Code != "" {
		for _, existing := range r.s.d.products {
			if existing.Code == p.Code {
				return product.ErrDuplicateCode
			}
		}
	}
	r.s.d.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepository) List(_ context.Context, f product.ListFilter) ([]*product.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*product.Product
	for _, p := range r.s.d.products {
		if (f.Category != "" && p.Category != f.Category) || (f.Active != nil && p.Active != *f.Active) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Code+" "+p.SKU), search) {
			continue
		}
		out = append(out, &p)
	}
	sortBy(out, func(a, b *product.Product) bool { return a.Name < b.Name })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *ProductRepository) Update(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.products[p.ID]
	if !ok {
		return product.ErrNotFound
	}
	if p.Code != "" {
		for id, other := range r.s.d.products {
			if id != p.ID && other.Code == p.Code {
				return product.ErrDuplicateCode
			}
		}
	}
	updated := *p
	updated.Stock = existing.Stock
	updated.UpdatedAt = time.Now().UTC()
	r.s.d.products[p.ID] = updated
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.s.d.products, id)
	return nil
}

func (r *ProductRepository) SetStock(_ context.Context, id string, stock decimal.Decimal) error {
	if stock.IsNegative() {
		return product.ErrNegativeStock
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.products[id]
	if !ok {
		return product.ErrNotFound
	}
	p.Stock = stock
	r.s.d.products[id] = p
	return nil
}

func (r *ProductRepository) DecrementStock(_ context.Context, id string, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.products[id]
	if !ok {
		return product.ErrNotFound
	}
	if p.Stock.LessThan(qty) {
		return product.ErrInsufficientStock
	}
	p.Stock = p.Stock.Sub(qty)
	r.s.d.products[id] = p
	return nil
}

// SetProduct grava um produto diretamente (fixtures de teste)
func (s *Store) SetProduct(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.products[p.ID] = p
}
