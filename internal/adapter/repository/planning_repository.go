package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/planning"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const planningColumns = `id, circuit_id, title, date, time, status, stops, commercial_id,
	client_ids, notes, created_by, created_at, updated_at`

const planningScheduleKey = "plannings_commercial_date_key"

// PlanningRepository implementa a interface planning.Repository
type PlanningRepository struct {
	db *database.PostgresDB
}

// NewPlanningRepository cria uma nova instância de PlanningRepository
func NewPlanningRepository(db *database.PostgresDB) *PlanningRepository {
	return &PlanningRepository{db: db}
}

// Create implementa planning.Repository.Create
func (r *PlanningRepository) Create(ctx context.Context, p *planning.Planning) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO plannings (`+planningColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, nullIfEmpty(p.CircuitID), p.Title, p.Date, p.Time, p.Status, p.Stops,
		p.CommercialID, p.ClientIDs, p.Notes, nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, planningScheduleKey) {
			return planning.ErrDuplicateSchedule
		}
		return fmt.Errorf("failed to create planning: %w", err)
	}
	return nil
}

// FindByID implementa planning.Repository.FindByID
func (r *PlanningRepository) FindByID(ctx context.Context, id string) (*planning.Planning, error) {
	p, err := scanPlanning(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+planningColumns+` FROM plannings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, planning.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find planning: %w", err)
	}
	return p, nil
}

// List implementa planning.Repository.List
func (r *PlanningRepository) List(ctx context.Context, f planning.ListFilter) ([]*planning.Planning, int, error) {
	var w whereBuilder
	if f.CommercialID != "" {
		w.add("commercial_id = ?", f.CommercialID)
	}
	if f.Date != nil {
		w.add("date = ?", planning.StartOfDay(*f.Date))
	} else {
		if f.From != nil {
			w.add("date >= ?", planning.StartOfDay(*f.From))
		}
		if f.To != nil {
			w.add("date <= ?", planning.StartOfDay(*f.To))
		}
	}

	conn := r.db.Conn(ctx)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM plannings`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count plannings: %w", err)
	}

	limitSQL, args := w.page(f.Limit, f.Offset)
	rows, err := conn.Query(ctx, `SELECT `+planningColumns+` FROM plannings`+w.sql()+
		` ORDER BY date DESC, time, id`+limitSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list plannings: %w", err)
	}
	defer rows.Close()

	var out []*planning.Planning
	for rows.Next() {
		p, err := scanPlanning(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan planning: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update implementa planning.Repository.Update
func (r *PlanningRepository) Update(ctx context.Context, p *planning.Planning) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE plannings SET circuit_id = $2, title = $3, date = $4, time = $5, status = $6,
			stops = $7, commercial_id = $8, client_ids = $9, notes = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, nullIfEmpty(p.CircuitID), p.Title, p.Date, p.Time, p.Status, p.Stops,
		p.CommercialID, p.ClientIDs, p.Notes, p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, planningScheduleKey) {
			return planning.ErrDuplicateSchedule
		}
		return fmt.Errorf("failed to update planning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return planning.ErrNotFound
	}
	return nil
}

// Delete implementa planning.Repository.Delete
func (r *PlanningRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM plannings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete planning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return planning.ErrNotFound
	}
	return nil
}

func scanPlanning(row pgx.Row) (*planning.Planning, error) {
	var p planning.Planning
	var circuitID, createdBy *string
	err := row.Scan(&p.ID, &circuitID, &p.Title, &p.Date, &p.Time, &p.Status, &p.Stops,
		&p.CommercialID, &p.ClientIDs, &p.Notes, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CircuitID = derefString(circuitID)
	p.CreatedBy = derefString(createdBy)
	return &p, nil
}
