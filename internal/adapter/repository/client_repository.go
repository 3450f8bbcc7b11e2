package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/client"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const clientColumns = `id, name, shop_name, code, email, phone, street, city, governorate,
	postal_code, latitude, longitude, type, segment, circuit_id, total_debt, total_orders,
	last_visit, is_active, archived, matricule_fiscale, owner_name, owner_picture,
	shop_picture, notes, created_by, created_at, updated_at`

var clientSortColumns = map[client.SortField]string{
	client.SortName:      "name",
	client.SortShopName:  "shop_name",
	client.SortCreatedAt: "created_at",
	client.SortTotalDebt: "total_debt",
}

// ClientRepository implementa a interface client.Repository
type ClientRepository struct {
	db *database.PostgresDB
}

// NewClientRepository cria uma nova instância de ClientRepository
func NewClientRepository(db *database.PostgresDB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create implementa client.Repository.Create
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	lat, lng := clientCoords(c)
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`,
		c.ID, c.Name, c.ShopName, nullIfEmpty(c.Code), c.Email, c.Phone,
		c.Address.Street, c.Address.City, c.Address.Governorate, c.Address.PostalCode,
		lat, lng, c.Type, c.Segment, nullIfEmpty(c.CircuitID), c.TotalDebt, c.TotalOrders,
		c.LastVisit, c.IsActive, c.Archived, c.MatriculeFiscale, c.OwnerName,
		c.OwnerPicture, c.ShopPicture, c.Notes, nullIfEmpty(c.CreatedBy),
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "clients_code_key") {
			return client.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// FindByID implementa client.Repository.FindByID
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*client.Client, error) {
	c, err := scanClient(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return c, nil
}

// List implementa client.Repository.List
func (r *ClientRepository) List(ctx context.Context, f client.ListFilter) ([]*client.Client, int, error) {
	var w whereBuilder
	if !f.Scope.Unrestricted() {
		w.add("created_by = ?", f.Scope.CreatedBy)
	}
	if f.Segment != "" {
		w.add("segment = ?", f.Segment)
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.CircuitID != "" {
		w.add("circuit_id = ?", f.CircuitID)
	}
	if f.Archived != nil {
		w.add("archived = ?", *f.Archived)
	}
	if f.IsActive != nil {
		w.add("is_active = ?", *f.IsActive)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add("(name ILIKE ? OR shop_name ILIKE ? OR code ILIKE ? OR phone ILIKE ?)", "%"+s+"%")
	}

	conn := r.db.Conn(ctx)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM clients`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	order := "created_at DESC"
	if col, ok := clientSortColumns[f.Sort.Field]; ok {
		order = col + " ASC"
		if f.Sort.Desc {
			order = col + " DESC"
		}
	}

	limitSQL, args := w.page(f.Limit, f.Offset)
	clients, err := r.query(ctx, `SELECT `+clientColumns+` FROM clients`+w.sql()+
		` ORDER BY `+order+`, id`+limitSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// Near implementa client.Repository.Near usando a fórmula de haversine
func (r *ClientRepository) Near(ctx context.Context, f client.NearFilter) ([]*client.Client, error) {
	var w whereBuilder
	w.addRaw("is_active = TRUE AND archived = FALSE AND latitude IS NOT NULL AND longitude IS NOT NULL")
	if !f.Scope.Unrestricted() {
		w.add("created_by = ?", f.Scope.CreatedBy)
	}
	n := len(w.args)

	query := fmt.Sprintf(`SELECT %s FROM (
			SELECT *, 6371 * 2 * ASIN(SQRT(
				POWER(SIN(RADIANS(latitude - $%[2]d) / 2), 2) +
				COS(RADIANS($%[2]d)) * COS(RADIANS(latitude)) *
				POWER(SIN(RADIANS(longitude - $%[3]d) / 2), 2))) AS distance_km
			FROM clients%[4]s
		) nearby
		WHERE distance_km <= $%[5]d
		ORDER BY distance_km
		LIMIT $%[6]d`,
		clientColumns, n+1, n+2, w.sql(), n+3, n+4)

	args := append(append([]any{}, w.args...), f.Latitude, f.Longitude, f.MaxDistanceKm, f.Limit)
	return r.query(ctx, query, args...)
}

// ListByCircuit implementa client.Repository.ListByCircuit
func (r *ClientRepository) ListByCircuit(ctx context.Context, circuitID string, scope client.Scope) ([]*client.Client, error) {
	var w whereBuilder
	w.add("(circuit_id = ? OR id::text = ANY(SELECT unnest(client_ids) FROM circuits WHERE id = ?))", circuitID)
	if !scope.Unrestricted() {
		w.add("created_by = ?", scope.CreatedBy)
	}
	return r.query(ctx, `SELECT `+clientColumns+` FROM clients`+w.sql()+` ORDER BY name`, w.args...)
}

// Update implementa client.Repository.Update
func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	lat, lng := clientCoords(c)
	c.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE clients SET
			name = $2, shop_name = $3, code = $4, email = $5, phone = $6, street = $7,
			city = $8, governorate = $9, postal_code = $10, latitude = $11, longitude = $12,
			type = $13, segment = $14, circuit_id = $15, total_orders = $16, last_visit = $17,
			is_active = $18, archived = $19, matricule_fiscale = $20, owner_name = $21,
			owner_picture = $22, shop_picture = $23, notes = $24, updated_at = $25
		WHERE id = $1`,
		c.ID, c.Name, c.ShopName, nullIfEmpty(c.Code), c.Email, c.Phone, c.Address.Street,
		c.Address.City, c.Address.Governorate, c.Address.PostalCode, lat, lng,
		c.Type, c.Segment, nullIfEmpty(c.CircuitID), c.TotalOrders, c.LastVisit,
		c.IsActive, c.Archived, c.MatriculeFiscale, c.OwnerName,
		c.OwnerPicture, c.ShopPicture, c.Notes, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "clients_code_key") {
			return client.ErrDuplicateCode
		}
		return fmt.Errorf("failed to update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrNotFound
	}
	return nil
}

// Delete implementa client.Repository.Delete
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrNotFound
	}
	return nil
}

// AddDebt implementa client.Repository.AddDebt
func (r *ClientRepository) AddDebt(ctx context.Context, id string, delta decimal.Decimal) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE clients SET total_debt = total_debt + $2, updated_at = $3 WHERE id = $1`,
		id, delta, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to adjust client debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrNotFound
	}
	return nil
}

// SettleDebt implementa client.Repository.SettleDebt. A guarda no WHERE
// revalida a dívida no momento da escrita.
func (r *ClientRepository) SettleDebt(ctx context.Context, id string, amount decimal.Decimal) error {
	conn := r.db.Conn(ctx)
	tag, err := conn.Exec(ctx,
		`UPDATE clients SET total_debt = total_debt - $2, updated_at = $3
		WHERE id = $1 AND total_debt >= $2`,
		id, amount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to settle client debt: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check client: %w", err)
	}
	if !exists {
		return client.ErrNotFound
	}
	return client.ErrInsufficientDebt
}

func (r *ClientRepository) query(ctx context.Context, sql string, args ...any) ([]*client.Client, error) {
	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var out []*client.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func clientCoords(c *client.Client) (*float64, *float64) {
	if c.Location == nil {
		return nil, nil
	}
	return &c.Location.Latitude, &c.Location.Longitude
}

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	var code, circuitID, createdBy *string
	var lat, lng *float64
	err := row.Scan(&c.ID, &c.Name, &c.ShopName, &code, &c.Email, &c.Phone,
		&c.Address.Street, &c.Address.City, &c.Address.Governorate, &c.Address.PostalCode,
		&lat, &lng, &c.Type, &c.Segment, &circuitID, &c.TotalDebt, &c.TotalOrders,
		&c.LastVisit, &c.IsActive, &c.Archived, &c.MatriculeFiscale, &c.OwnerName,
		&c.OwnerPicture, &c.ShopPicture, &c.Notes, &createdBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Code = derefString(code)
	c.CircuitID = derefString(circuitID)
	c.CreatedBy = derefString(createdBy)
	if lat != nil && lng != nil {
		c.Location = &client.Location{Latitude: *lat, Longitude: *lng}
	}
	return &c, nil
}
