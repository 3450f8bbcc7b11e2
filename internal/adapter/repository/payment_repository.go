package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/payment"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `p.id, p.client_id, c.name, p.delivery_id, p.amount, p.currency, p.method,
	p.status, p.paid_at, p.received_by, p.notes, p.created_by, p.created_at, p.updated_at`

const paymentFrom = ` FROM payments p JOIN clients c ON c.id = p.client_id`

// PaymentRepository implementa a interface payment.Repository
type PaymentRepository struct {
	db *database.PostgresDB
}

// NewPaymentRepository cria uma nova instância de PaymentRepository
func NewPaymentRepository(db *database.PostgresDB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create implementa payment.Repository.Create
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO payments (id, client_id, delivery_id, amount, currency, method, status,
			paid_at, received_by, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.ClientID, nullIfEmpty(p.DeliveryID), p.Amount, p.Currency, p.Method, p.Status,
		p.PaidAt, nullIfEmpty(p.ReceivedBy), p.Notes, nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// FindByID implementa payment.Repository.FindByID
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := scanPayment(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+paymentColumns+paymentFrom+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return p, nil
}

// List implementa payment.Repository.List
func (r *PaymentRepository) List(ctx context.Context, f payment.ListFilter) ([]*payment.Payment, int, payment.Summary, error) {
	var w whereBuilder
	if f.ClientID != "" {
		w.add("p.client_id = ?", f.ClientID)
	}
	if f.Method != "" {
		w.add("p.method = ?", f.Method)
	}
	if f.Status != "" {
		w.add("p.status = ?", f.Status)
	}
	if f.From != nil {
		w.add("p.paid_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("p.paid_at <= ?", *f.To)
	}

	conn := r.db.Conn(ctx)
	var total int
	var summary payment.Summary
	err := conn.QueryRow(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'completed'), 0),
			COALESCE(SUM(p.amount) FILTER (WHERE p.status = 'pending'), 0)`+paymentFrom+w.sql(),
		w.args...).Scan(&total, &summary.TotalCollected, &summary.Pending)
	if err != nil {
		return nil, 0, summary, fmt.Errorf("failed to summarize payments: %w", err)
	}

	limitSQL, args := w.page(f.Limit, f.Offset)
	rows, err := conn.Query(ctx, `SELECT `+paymentColumns+paymentFrom+w.sql()+
		` ORDER BY p.paid_at DESC, p.id`+limitSQL, args...)
	if err != nil {
		return nil, 0, summary, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []*payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, summary, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, summary, err
	}
	return out, total, summary, nil
}

// Update implementa payment.Repository.Update
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment, from payment.Status) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE payments SET delivery_id = $2, currency = $3, method = $4, status = $5,
			paid_at = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND status = $9`,
		p.ID, nullIfEmpty(p.DeliveryID), p.Currency, p.Method, p.Status, p.PaidAt, p.Notes, p.UpdatedAt, from)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check payment: %w", err)
	}
	if !exists {
		return payment.ErrNotFound
	}
	return payment.ErrStatusChanged
}

// Delete implementa payment.Repository.Delete
func (r *PaymentRepository) Delete(ctx context.Context, id string) (payment.Status, error) {
	var status payment.Status
	err := r.db.Conn(ctx).QueryRow(ctx,
		`DELETE FROM payments WHERE id = $1 RETURNING status`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", payment.ErrNotFound
		}
		return "", fmt.Errorf("failed to delete payment: %w", err)
	}
	return status, nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var deliveryID, receivedBy, createdBy *string
	err := row.Scan(&p.ID, &p.ClientID, &p.ClientName, &deliveryID, &p.Amount, &p.Currency,
		&p.Method, &p.Status, &p.PaidAt, &receivedBy, &p.Notes, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.DeliveryID = derefString(deliveryID)
	p.ReceivedBy = derefString(receivedBy)
	p.CreatedBy = derefString(createdBy)
	return &p, nil
}
