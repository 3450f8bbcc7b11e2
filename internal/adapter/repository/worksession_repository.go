package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/worksession"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const activeSessionIndex = "work_sessions_one_active_per_agent"

const sessionColumns = `id, agent_id, status, start_time, end_time,
	total_cash_collected, total_credit_collected, total_credit_sales,
	total_expenses, total_revenue, device, app_version, created_at, updated_at`

// WorkSessionRepository implementa worksession.Repository e
// worksession.RefResolver sobre PostgreSQL
type WorkSessionRepository struct {
	db *database.PostgresDB
}

// NewWorkSessionRepository cria uma nova instância de WorkSessionRepository
func NewWorkSessionRepository(db *database.PostgresDB) *WorkSessionRepository {
	return &WorkSessionRepository{db: db}
}

// Create implementa worksession.Repository.Create
func (r *WorkSessionRepository) Create(ctx context.Context, s *worksession.WorkSession) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO work_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.AgentID, s.Status, s.StartTime, s.EndTime,
		s.Totals.CashCollected, s.Totals.CreditCollected, s.Totals.CreditSales,
		s.Totals.Expenses, s.Totals.Revenue, s.Metadata.Device, s.Metadata.Version,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, activeSessionIndex) {
			return worksession.ErrActiveExists
		}
		return fmt.Errorf("failed to create work session: %w", err)
	}
	return nil
}

// FindByID implementa worksession.Repository.FindByID
func (r *WorkSessionRepository) FindByID(ctx context.Context, id string) (*worksession.WorkSession, error) {
	s, err := scanSession(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM work_sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, worksession.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find work session: %w", err)
	}

	if err := r.loadEntries(ctx, []*worksession.WorkSession{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// FindActiveByAgent implementa worksession.Repository.FindActiveByAgent
func (r *WorkSessionRepository) FindActiveByAgent(ctx context.Context, agentID string) (*worksession.WorkSession, error) {
	s, err := scanSession(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM work_sessions WHERE agent_id = $1 AND status = 'ACTIVE'`, agentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, worksession.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active work session: %w", err)
	}

	if err := r.loadEntries(ctx, []*worksession.WorkSession{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// End implementa worksession.Repository.End
func (r *WorkSessionRepository) End(ctx context.Context, id string, endTime time.Time) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE work_sessions
		SET status = 'ENDED',
			end_time = $2,
			total_revenue = total_cash_collected + total_credit_collected + total_credit_sales,
			updated_at = $3
		WHERE id = $1 AND status = 'ACTIVE'`,
		id, endTime, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to end work session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return worksession.ErrNotActive
	}
	return nil
}

// Post implementa worksession.Repository.Post. O incremento e o lançamento
// são um único comando: a CTE só devolve linha se a sessão ainda estiver
// ACTIVE, e o INSERT só acontece a partir dessa linha.
func (r *WorkSessionRepository) Post(ctx context.Context, id string, total worksession.Total, amount decimal.Decimal, entry *worksession.Entry) error {
	if !total.Valid() {
		return worksession.ErrUnknownTotal
	}
	now := time.Now().UTC()

	if entry == nil {
		tag, err := r.db.Conn(ctx).Exec(ctx, fmt.Sprintf(
			`UPDATE work_sessions SET %[1]s = %[1]s + $2, updated_at = $3
			WHERE id = $1 AND status = 'ACTIVE'`, total),
			id, amount, now)
		if err != nil {
			return fmt.Errorf("failed to post to work session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return worksession.ErrNotActive
		}
		return nil
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, fmt.Sprintf(
		`WITH upd AS (
			UPDATE work_sessions SET %[1]s = %[1]s + $2::numeric, updated_at = $3::timestamptz
			WHERE id = $1 AND status = 'ACTIVE'
			RETURNING id
		)
		INSERT INTO work_session_entries
			(id, session_id, kind, ref_id, amount, delivery_type, payment_method, label, created_at)
		SELECT $4::uuid, upd.id, $5::varchar, $6::uuid, $2::numeric, $7::varchar, $8::varchar, $9::varchar, $10::timestamptz
		FROM upd`, total),
		id, amount, now,
		entry.ID, entry.Kind, nullIfEmpty(entry.RefID), string(entry.DeliveryType),
		string(entry.PaymentMethod), entry.Label, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to post to work session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return worksession.ErrNotActive
	}
	return nil
}

// History implementa worksession.Repository.History
func (r *WorkSessionRepository) History(ctx context.Context, f worksession.HistoryFilter) ([]*worksession.WorkSession, int, error) {
	var w whereBuilder
	w.add("agent_id = ?", f.AgentID)
	if f.From != nil {
		w.add("start_time >= ?", *f.From)
	}
	if f.To != nil {
		w.add("start_time <= ?", *f.To)
	}

	conn := r.db.Conn(ctx)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM work_sessions`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work sessions: %w", err)
	}

	limitSQL, args := w.page(f.Limit, f.Offset)
	rows, err := conn.Query(ctx,
		`SELECT `+sessionColumns+` FROM work_sessions`+w.sql()+` ORDER BY start_time DESC`+limitSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*worksession.WorkSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan work session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate work sessions: %w", err)
	}

	if err := r.loadEntries(ctx, sessions); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// PaymentRefs implementa worksession.RefResolver.PaymentRefs
func (r *WorkSessionRepository) PaymentRefs(ctx context.Context, ids []string) (map[string]worksession.Ref, error) {
	return r.refs(ctx, `SELECT p.id, p.client_id, c.name, p.amount
		FROM payments p JOIN clients c ON c.id = p.client_id
		WHERE p.id = ANY($1::uuid[])`, ids)
}

// DeliveryRefs implementa worksession.RefResolver.DeliveryRefs
func (r *WorkSessionRepository) DeliveryRefs(ctx context.Context, ids []string) (map[string]worksession.Ref, error) {
	return r.refs(ctx, `SELECT d.id, d.client_id, c.name, d.total_amount
		FROM deliveries d JOIN clients c ON c.id = d.client_id
		WHERE d.id = ANY($1::uuid[])`, ids)
}

func (r *WorkSessionRepository) refs(ctx context.Context, query string, ids []string) (map[string]worksession.Ref, error) {
	out := make(map[string]worksession.Ref, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Conn(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session references: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var ref worksession.Ref
		if err := rows.Scan(&id, &ref.ClientID, &ref.ClientName, &ref.Total); err != nil {
			return nil, fmt.Errorf("failed to scan session reference: %w", err)
		}
		out[id] = ref
	}
	return out, rows.Err()
}

func (r *WorkSessionRepository) loadEntries(ctx context.Context, sessions []*worksession.WorkSession) error {
	if len(sessions) == 0 {
		return nil
	}

	byID := make(map[string]*worksession.WorkSession, len(sessions))
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT session_id, id, kind, ref_id, amount, delivery_type, payment_method, label, created_at
		FROM work_session_entries
		WHERE session_id = ANY($1::uuid[])
		ORDER BY seq`, ids)
	if err != nil {
		return fmt.Errorf("failed to load work session entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID string
		var refID *string
		var e worksession.Entry
		var deliveryType, method string
		if err := rows.Scan(&sessionID, &e.ID, &e.Kind, &refID, &e.Amount,
			&deliveryType, &method, &e.Label, &e.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan work session entry: %w", err)
		}
		e.RefID = derefString(refID)
		e.DeliveryType = worksession.DeliveryType(deliveryType)
		e.PaymentMethod = worksession.PaymentMethod(method)
		if s, ok := byID[sessionID]; ok {
			s.AppendEntry(e)
		}
	}
	return rows.Err()
}

func scanSession(row pgx.Row) (*worksession.WorkSession, error) {
	s := worksession.WorkSession{
		Deliveries: []worksession.Entry{},
		Payments:   []worksession.Entry{},
		Expenses:   []worksession.Entry{},
	}
	err := row.Scan(&s.ID, &s.AgentID, &s.Status, &s.StartTime, &s.EndTime,
		&s.Totals.CashCollected, &s.Totals.CreditCollected, &s.Totals.CreditSales,
		&s.Totals.Expenses, &s.Totals.Revenue, &s.Metadata.Device, &s.Metadata.Version,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
