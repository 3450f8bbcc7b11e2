package memory

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/shopspring/decimal"
)

type ClientRepository struct {
	s *Store
}

func NewClientRepository(s *Store) *ClientRepository {
	return &ClientRepository{s: s}
}

func (r *ClientRepository) Create(_ context.Context, c *client.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.Code != "" {
		for _, existing := range r.s.d.clients {
			if existing.Code == c.Code {
				return client.ErrDuplicateCode
			}
		}
	}
	r.s.d.clients[c.ID] = cloneClient(*c)
	return nil
}

func (r *ClientRepository) FindByID(_ context.Context, id string) (*client.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.clients[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	out := cloneClient(c)
	return &out, nil
}

func (r *ClientRepository) List(_ context.Context, f client.ListFilter) ([]*client.Client, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []*client.Client
	for _, c := range r.s.d.clients {
		if !f.Scope.Allows(&c) ||
			(f.Segment != "" && c.Segment != f.Segment) ||
			(f.Type != "" && c.Type != f.Type) ||
			(f.CircuitID != "" && c.CircuitID != f.CircuitID) ||
			(f.Archived != nil && c.Archived != *f.Archived) ||
			(f.IsActive != nil && c.IsActive != *f.IsActive) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.ShopName+" "+c.Code+" "+c.Phone), search) {
			continue
		}
		out := cloneClient(c)
		matched = append(matched, &out)
	}

	sortBy(matched, func(a, b *client.Client) bool {
		if f.Sort.Desc {
			a, b = b, a
		}
		switch f.Sort.Field {
		case client.SortName:
			return a.Name < b.Name
		case client.SortShopName:
			return a.ShopName < b.ShopName
		case client.SortTotalDebt:
			return a.TotalDebt.LessThan(b.TotalDebt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func (r *ClientRepository) Near(_ context.Context, f client.NearFilter) ([]*client.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	type hit struct {
		c    *client.Client
		dist float64
	}
	var hits []hit
	for _, c := range r.s.d.clients {
		if !c.IsActive || c.Archived || c.Location == nil || !f.Scope.Allows(&c) {
			continue
		}
		d := haversineKm(f.Latitude, f.Longitude, c.Location.Latitude, c.Location.Longitude)
		if d <= f.MaxDistanceKm {
			out := cloneClient(c)
			hits = append(hits, hit{c: &out, dist: d})
		}
	}
	sortBy(hits, func(a, b hit) bool { return a.dist < b.dist })

	out := make([]*client.Client, 0, len(hits))
	for _, h := range paginate(hits, f.Limit, 0) {
		out = append(out, h.c)
	}
	return out, nil
}

func (r *ClientRepository) ListByCircuit(_ context.Context, circuitID string, scope client.Scope) ([]*client.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	listed := map[string]bool{}
	if cir, ok := r.s.d.circuits[circuitID]; ok {
		for _, id := range cir.ClientIDs {
			listed[id] = true
		}
	}

	var out []*client.Client
	for _, c := range r.s.d.clients {
		if (c.CircuitID == circuitID || listed[c.ID]) && scope.Allows(&c) {
			cc := cloneClient(c)
			out = append(out, &cc)
		}
	}
	sortBy(out, func(a, b *client.Client) bool { return a.Name < b.Name })
	return out, nil
}

func (r *ClientRepository) Update(_ context.Context, c *client.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.d.clients[c.ID]
	if !ok {
		return client.ErrNotFound
	}
	if c.Code != "" {
		for id, other := range r.s.d.clients {
			if id != c.ID && other.Code == c.Code {
				return client.ErrDuplicateCode
			}
		}
	}
	updated := cloneClient(*c)
	updated.TotalDebt = existing.TotalDebt
	updated.UpdatedAt = time.Now().UTC()
	r.s.d.clients[c.ID] = updated
	return nil
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.clients[id]; !ok {
		return client.ErrNotFound
	}
	delete(r.s.d.clients, id)
	return nil
}

func (r *ClientRepository) AddDebt(_ context.Context, id string, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(OpClientAddDebt); err != nil {
		return err
	}
	c, ok := r.s.d.clients[id]
	if !ok {
		return client.ErrNotFound
	}
	c.TotalDebt = c.TotalDebt.Add(delta)
	r.s.d.clients[id] = c
	return nil
}

func (r *ClientRepository) SettleDebt(_ context.Context, id string, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(OpClientSettleDebt); err != nil {
		return err
	}
	c, ok := r.s.d.clients[id]
	if !ok {
		return client.ErrNotFound
	}
	if c.TotalDebt.LessThan(amount) {
		return client.ErrInsufficientDebt
	}
	c.TotalDebt = c.TotalDebt.Sub(amount)
	r.s.d.clients[id] = c
	return nil
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// SetClient grava um cliente diretamente, ignorando regras (fixtures de teste)
func (s *Store) SetClient(c client.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.clients[c.ID] = cloneClient(c)
}
