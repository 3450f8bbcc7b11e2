package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/circuit"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const circuitColumns = `id, name, code, zone, region, client_ids, stops, estimated_duration,
	assigned_to, description, is_active, created_by, created_at, updated_at`

// CircuitRepository implementa a interface circuit.Repository
type CircuitRepository struct {
	db *database.PostgresDB
}

// NewCircuitRepository cria uma nova instância de CircuitRepository
func NewCircuitRepository(db *database.PostgresDB) *CircuitRepository {
	return &CircuitRepository{db: db}
}

// Create implementa circuit.Repository.Create
func (r *CircuitRepository) Create(ctx context.Context, c *circuit.Circuit) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO circuits (`+circuitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.Name, nullIfEmpty(c.Code), c.Zone, c.Region, c.ClientIDs, c.Stops,
		c.EstimatedDuration, nullIfEmpty(c.AssignedTo), c.Description, c.IsActive,
		nullIfEmpty(c.CreatedBy), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "circuits_code_key") {
			return circuit.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create circuit: %w", err)
	}
	return nil
}

// FindByID implementa circuit.Repository.FindByID
func (r *CircuitRepository) FindByID(ctx context.Context, id string) (*circuit.Circuit, error) {
	c, err := scanCircuit(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+circuitColumns+` FROM circuits WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, circuit.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find circuit: %w", err)
	}
	return c, nil
}

// List implementa circuit.Repository.List
func (r *CircuitRepository) List(ctx context.Context, f circuit.ListFilter) ([]*circuit.Circuit, int, error) {
	var w whereBuilder
	if f.Scope.AgentID != "" {
		w.add("(created_by = ? OR assigned_to = ?)", f.Scope.AgentID)
	}
	if f.Zone != "" {
		w.add("zone = ?", f.Zone)
	}
	if f.IsActive != nil {
		w.add("is_active = ?", *f.IsActive)
	}

	conn := r.db.Conn(ctx)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM circuits`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count circuits: %w", err)
	}

	limitSQL, args := w.page(f.Limit, f.Offset)
	rows, err := conn.Query(ctx, `SELECT `+circuitColumns+` FROM circuits`+w.sql()+` ORDER BY name, id`+limitSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list circuits: %w", err)
	}
	defer rows.Close()

	var out []*circuit.Circuit
	for rows.Next() {
		c, err := scanCircuit(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan circuit: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update implementa circuit.Repository.Update
func (r *CircuitRepository) Update(ctx context.Context, c *circuit.Circuit) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE circuits SET name = $2, code = $3, zone = $4, region = $5, client_ids = $6,
			stops = $7, estimated_duration = $8, assigned_to = $9, description = $10,
			is_active = $11, updated_at = $12
		WHERE id = $1`,
		c.ID, c.Name, nullIfEmpty(c.Code), c.Zone, c.Region, c.ClientIDs, c.Stops,
		c.EstimatedDuration, nullIfEmpty(c.AssignedTo), c.Description, c.IsActive, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "circuits_code_key") {
			return circuit.ErrDuplicateCode
		}
		return fmt.Errorf("failed to update circuit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return circuit.ErrNotFound
	}
	return nil
}

// Delete implementa circuit.Repository.Delete
func (r *CircuitRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM circuits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete circuit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return circuit.ErrNotFound
	}
	return nil
}

func scanCircuit(row pgx.Row) (*circuit.Circuit, error) {
	var c circuit.Circuit
	var code, assignedTo, createdBy *string
	err := row.Scan(&c.ID, &c.Name, &code, &c.Zone, &c.Region, &c.ClientIDs, &c.Stops,
		&c.EstimatedDuration, &assignedTo, &c.Description, &c.IsActive, &createdBy,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Code = derefString(code)
	c.AssignedTo = derefString(assignedTo)
	c.CreatedBy = derefString(createdBy)
	return &c, nil
}
