package memory

import (
	"context"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/circuit"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/planning"
)

type CircuitRepository struct {
	s *Store
}

func NewCircuitRepository(s *Store) *CircuitRepository {
	return &CircuitRepository{s: s}
}

func (r *CircuitRepository) Create(_ context.Context, c *circuit.Circuit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.Code != "" {
		for _, existing := range r.s.d.circuits {
			if existing.Code == c.Code {
				return circuit.ErrDuplicateCode
			}
		}
	}
	r.s.d.circuits[c.ID] = cloneCircuit(*c)
	return nil
}

func (r *CircuitRepository) FindByID(_ context.Context, id string) (*circuit.Circuit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.circuits[id]
	if !ok {
		return nil, circuit.ErrNotFound
	}
	out := cloneCircuit(c)
	return &out, nil
}

func (r *CircuitRepository) List(_ context.Context, f circuit.ListFilter) ([]*circuit.Circuit, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*circuit.Circuit
	for _, c := range r.s.d.circuits {
		if !f.Scope.Allows(&c) || (f.Zone != "" && c.Zone != f.Zone) || (f.IsActive != nil && c.IsActive != *f.IsActive) {
			continue
		}
		cc := cloneCircuit(c)
		out = append(out, &cc)
	}
	sortBy(out, func(a, b *circuit.Circuit) bool { return a.Name < b.Name })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *CircuitRepository) Update(_ context.Context, c *circuit.Circuit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.circuits[c.ID]; !ok {
		return circuit.ErrNotFound
	}
	if c.Code != "" {
		for id, other := range r.s.d.circuits {
			if id != c.ID && other.Code == c.Code {
				return circuit.ErrDuplicateCode
			}
		}
	}
	updated := cloneCircuit(*c)
	updated.UpdatedAt = time.Now().UTC()
	r.s.d.circuits[c.ID] = updated
	return nil
}

func (r *CircuitRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.circuits[id]; !ok {
		return circuit.ErrNotFound
	}
	delete(r.s.d.circuits, id)
	return nil
}

type PlanningRepository struct {
	s *Store
}

func NewPlanningRepository(s *Store) *PlanningRepository {
	return &PlanningRepository{s: s}
}

func (r *PlanningRepository) Create(_ context.Context, p *planning.Planning) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.scheduleTaken(p) {
		return planning.ErrDuplicateSchedule
	}
	r.s.d.plannings[p.ID] = clonePlanning(*p)
	return nil
}

func (r *PlanningRepository) FindByID(_ context.Context, id string) (*planning.Planning, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.plannings[id]
	if !ok {
		return nil, planning.ErrNotFound
	}
	out := clonePlanning(p)
	return &out, nil
}

func (r *PlanningRepository) List(_ context.Context, f planning.ListFilter) ([]*planning.Planning, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*planning.Planning
	for _, p := range r.s.d.plannings {
		if f.CommercialID != "" && p.CommercialID != f.CommercialID {
			continue
		}
		if f.Date != nil {
			if !p.Date.Equal(planning.StartOfDay(*f.Date)) {
				continue
			}
		} else if (f.From != nil && p.Date.Before(planning.StartOfDay(*f.From))) ||
			(f.To != nil && p.Date.After(planning.StartOfDay(*f.To))) {
			continue
		}
		pp := clonePlanning(p)
		out = append(out, &pp)
	}
	sortBy(out, func(a, b *planning.Planning) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Time < b.Time
	})
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *PlanningRepository) Update(_ context.Context, p *planning.Planning) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.plannings[p.ID]; !ok {
		return planning.ErrNotFound
	}
	if r.scheduleTaken(p) {
		return planning.ErrDuplicateSchedule
	}
	updated := clonePlanning(*p)
	updated.UpdatedAt = time.Now().UTC()
	r.s.d.plannings[p.ID] = updated
	return nil
}

func (r *PlanningRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.plannings[id]; !ok {
		return planning.ErrNotFound
	}
	delete(r.s.d.plannings, id)
	return nil
}

func (r *PlanningRepository) scheduleTaken(p *planning.Planning) bool {
	if p.CommercialID == "" {
		return false
	}
	for id, other := range r.s.d.plannings {
		if id != p.ID && other.CommercialID == p.CommercialID && other.Date.Equal(p.Date) {
			return true
		}
	}
	return false
}
