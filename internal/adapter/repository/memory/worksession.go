package memory

import (
	"context"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
	"github.com/shopspring/decimal"
)

type WorkSessionRepository struct {
	s *Store
}

func NewWorkSessionRepository(s *Store) *WorkSessionRepository {
	return &WorkSessionRepository{s: s}
}

func (r *WorkSessionRepository) Create(_ context.Context, ws *worksession.WorkSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ws.Status == worksession.StatusActive {
		for _, existing := range r.s.d.sessions {
			if existing.AgentID == ws.AgentID && existing.Status == worksession.StatusActive {
				return worksession.ErrActiveExists
			}
		}
	}
	r.s.d.sessions[ws.ID] = cloneSession(*ws)
	return nil
}

func (r *WorkSessionRepository) FindByID(_ context.Context, id string) (*worksession.WorkSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ws, ok := r.s.d.sessions[id]
	if !ok {
		return nil, worksession.ErrNotFound
	}
	out := cloneSession(ws)
	return &out, nil
}

func (r *WorkSessionRepository) FindActiveByAgent(_ context.Context, agentID string) (*worksession.WorkSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ws := range r.s.d.sessions {
		if ws.AgentID == agentID && ws.Status == worksession.StatusActive {
			out := cloneSession(ws)
			return &out, nil
		}
	}
	return nil, worksession.ErrNotFound
}

func (r *WorkSessionRepository) End(_ context.Context, id string, endTime time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ws, ok := r.s.d.sessions[id]
	if !ok || ws.Status != worksession.StatusActive {
		return worksession.ErrNotActive
	}
	ws.Status = worksession.StatusEnded
	ws.EndTime = &endTime
	ws.Totals.Revenue = ws.Totals.DerivedRevenue()
	ws.UpdatedAt = time.Now().UTC()
	r.s.d.sessions[id] = ws
	return nil
}

func (r *WorkSessionRepository) Post(_ context.Context, id string, total worksession.Total, amount decimal.Decimal, entry *worksession.Entry) error {
	if !total.Valid() {
		return worksession.ErrUnknownTotal
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(OpSessionPost); err != nil {
		return err
	}
	ws, ok := r.s.d.sessions[id]
	if !ok || ws.Status != worksession.StatusActive {
		return worksession.ErrNotActive
	}
	ws = cloneSession(ws)
	ws.Totals.Add(total, amount)
	if entry != nil {
		ws.AppendEntry(*entry)
	}
	ws.UpdatedAt = time.Now().UTC()
	r.s.d.sessions[id] = ws
	return nil
}

func (r *WorkSessionRepository) History(_ context.Context, f worksession.HistoryFilter) ([]*worksession.WorkSession, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*worksession.WorkSession
	for _, ws := range r.s.d.sessions {
		if ws.AgentID != f.AgentID ||
			(f.From != nil && ws.StartTime.Before(*f.From)) ||
			(f.To != nil && ws.StartTime.After(*f.To)) {
			continue
		}
		c := cloneSession(ws)
		out = append(out, &c)
	}
	sortBy(out, func(a, b *worksession.WorkSession) bool { return a.StartTime.After(b.StartTime) })
	return paginate(out, f.Limit, f.Offset), len(out), nil
}

func (r *WorkSessionRepository) PaymentRefs(_ context.Context, ids []string) (map[string]worksession.Ref, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]worksession.Ref{}
	for _, id := range ids {
		p, ok := r.s.d.payments[id]
		if !ok {
			continue
		}
		out[id] = worksession.Ref{ClientID: p.ClientID, ClientName: r.s.d.clients[p.ClientID].Name, Total: p.Amount}
	}
	return out, nil
}

func (r *WorkSessionRepository) DeliveryRefs(_ context.Context, ids []string) (map[string]worksession.Ref, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]worksession.Ref{}
	for _, id := range ids {
		d, ok := r.s.d.deliveries[id]
		if !ok {
			continue
		}
		out[id] = worksession.Ref{ClientID: d.ClientID, ClientName: r.s.d.clients[d.ClientID].Name, Total: d.TotalAmount}
	}
	return out, nil
}
