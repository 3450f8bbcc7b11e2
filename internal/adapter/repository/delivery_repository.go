package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/delivery"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const deliveryColumns = `d.id, d.client_id, c.name, d.circuit_id, d.total_amount, d.status,
	d.payment_type, d.assigned_to, d.planned_date, d.delivery_date, d.completed_at,
	d.proof_photo, d.notes, d.created_by, d.created_at, d.updated_at`

const deliveryFrom = ` FROM deliveries d JOIN clients c ON c.id = d.client_id`

// DeliveryRepository implementa a interface delivery.Repository
type DeliveryRepository struct {
	db *database.PostgresDB
}

// NewDeliveryRepository cria uma nova instância de DeliveryRepository
func NewDeliveryRepository(db *database.PostgresDB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

// Create implementa delivery.Repository.Create. As linhas são gravadas na
// mesma transação do chamador.
func (r *DeliveryRepository) Create(ctx context.Context, d *delivery.Delivery) error {
	return r.db.WithinTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		_, err := conn.Exec(ctx,
			`INSERT INTO deliveries (id, client_id, circuit_id, total_amount, status, payment_type,
				assigned_to, planned_date, delivery_date, completed_at, proof_photo, notes,
				created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			d.ID, d.ClientID, nullIfEmpty(d.CircuitID), d.TotalAmount, d.Status, d.PaymentType,
			nullIfEmpty(d.AssignedTo), d.PlannedDate, d.DeliveryDate, d.CompletedAt,
			d.ProofPhoto, d.Notes, nullIfEmpty(d.CreatedBy), d.CreatedAt, d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create delivery: %w", err)
		}

		for i, l := range d.Lines {
			_, err := conn.Exec(ctx,
				`INSERT INTO delivery_lines (delivery_id, position, product_id, quantity, unit_price)
				VALUES ($1, $2, $3, $4, $5)`,
				d.ID, i, l.ProductID, l.Quantity, l.UnitPrice)
			if err != nil {
				return fmt.Errorf("failed to create delivery line: %w", err)
			}
		}
		return nil
	})
}

// FindByID implementa delivery.Repository.FindByID
func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*delivery.Delivery, error) {
	d, err := scanDelivery(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+deliveryColumns+deliveryFrom+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	if err := r.loadLines(ctx, []*delivery.Delivery{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// List implementa delivery.Repository.List
func (r *DeliveryRepository) List(ctx context.Context, f delivery.ListFilter) ([]*delivery.Delivery, int, error) {
	var w whereBuilder
	if f.ClientID != "" {
		w.add("d.client_id = ?", f.ClientID)
	}
	if f.CircuitID != "" {
		w.add("d.circuit_id = ?", f.CircuitID)
	}
	if f.Status != "" {
		w.add("d.status = ?", f.Status)
	}
	if f.Date != nil {
		day := f.Date.UTC().Truncate(24 * time.Hour)
		w.add("d.planned_date >= ?", day)
		w.add("d.planned_date < ?", day.Add(24*time.Hour))
	} else {
		if f.From != nil {
			w.add("d.planned_date >= ?", *f.From)
		}
		if f.To != nil {
			w.add("d.planned_date <= ?", *f.To)
		}
	}

	conn := r.db.Conn(ctx)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*)`+deliveryFrom+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	limitSQL, args := w.page(f.Limit, f.Offset)
	rows, err := conn.Query(ctx, `SELECT `+deliveryColumns+deliveryFrom+w.sql()+
		` ORDER BY d.planned_date DESC, d.id`+limitSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var out []*delivery.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadLines(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update implementa delivery.Repository.Update
func (r *DeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	d.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE deliveries SET circuit_id = $2, assigned_to = $3, planned_date = $4,
			proof_photo = $5, notes = $6, payment_type = $7, updated_at = $8
		WHERE id = $1 AND status <> $9`,
		d.ID, nullIfEmpty(d.CircuitID), nullIfEmpty(d.AssignedTo), d.PlannedDate,
		d.ProofPhoto, d.Notes, d.PaymentType, d.UpdatedAt, delivery.StatusDelivered)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOr(ctx, d.ID, delivery.ErrImmutable)
	}
	return nil
}

// UpdateStatus implementa delivery.Repository.UpdateStatus
func (r *DeliveryRepository) UpdateStatus(ctx context.Context, id string, from delivery.Status, change delivery.StatusChange) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE deliveries SET status = $2,
			completed_at = COALESCE($3, completed_at),
			delivery_date = COALESCE($4, delivery_date),
			proof_photo = CASE WHEN $5 = '' THEN proof_photo ELSE $5 END,
			updated_at = $6
		WHERE id = $1 AND status = $7`,
		id, change.Status, change.CompletedAt, change.DeliveryDate, change.ProofPhoto, time.Now().UTC(), from)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOr(ctx, id, delivery.ErrStatusChanged)
	}
	return nil
}

// Delete implementa delivery.Repository.Delete
func (r *DeliveryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`DELETE FROM deliveries WHERE id = $1 AND status <> $2`, id, delivery.StatusDelivered)
	if err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOr(ctx, id, delivery.ErrImmutable)
	}
	return nil
}

// missingOr distingue entrega inexistente de escrita barrada pela guarda
func (r *DeliveryRepository) missingOr(ctx context.Context, id string, guardErr error) error {
	var exists bool
	if err := r.db.Conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM deliveries WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check delivery: %w", err)
	}
	if !exists {
		return delivery.ErrNotFound
	}
	return guardErr
}

func (r *DeliveryRepository) loadLines(ctx context.Context, deliveries []*delivery.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	byID := make(map[string]*delivery.Delivery, len(deliveries))
	ids := make([]string, 0, len(deliveries))
	for _, d := range deliveries {
		d.Lines = []delivery.Line{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}

	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT l.delivery_id, l.product_id, p.name, l.quantity, l.unit_price
		FROM delivery_lines l JOIN products p ON p.id = l.product_id
		WHERE l.delivery_id = ANY($1::uuid[])
		ORDER BY l.delivery_id, l.position`, ids)
	if err != nil {
		return fmt.Errorf("failed to load delivery lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var deliveryID string
		var l delivery.Line
		if err := rows.Scan(&deliveryID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan delivery line: %w", err)
		}
		if d, ok := byID[deliveryID]; ok {
			d.Lines = append(d.Lines, l)
		}
	}
	return rows.Err()
}

func scanDelivery(row pgx.Row) (*delivery.Delivery, error) {
	var d delivery.Delivery
	var circuitID, assignedTo, createdBy *string
	err := row.Scan(&d.ID, &d.ClientID, &d.ClientName, &circuitID, &d.TotalAmount, &d.Status,
		&d.PaymentType, &assignedTo, &d.PlannedDate, &d.DeliveryDate, &d.CompletedAt,
		&d.ProofPhoto, &d.Notes, &createdBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.CircuitID = derefString(circuitID)
	d.AssignedTo = derefString(assignedTo)
	d.CreatedBy = derefString(createdBy)
	return &d, nil
}
