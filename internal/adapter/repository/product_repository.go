package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, code, sku, category, description, unit, price, stock,
	picture, active, created_at, updated_at`

// ProductRepository implementa a interface product.Repository
type ProductRepository struct {
	db *database.PostgresDB
}

// NewProductRepository cria uma nova instância de ProductRepository
func NewProductRepository(db *database.PostgresDB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create implementa product.Repository.Create
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Name, nullIfEmpty(p.Code), nullIfEmpty(p.SKU), p.Category, p.Description,
		p.Unit, p.Price, p.Stock, p.Picture, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "products_code_key") {
			return product.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID implementa product.Repository.FindByID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	p, err := scanProduct(r.db.Conn(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// List implementa product.Repository.List
func (r *ProductRepository) List(ctx context.Context, f product.ListFilter) ([]*product.Product, int, error) {
	var w whereBuilder
	if s := strings.TrimSpace(f.Search); s != "" {
		w.add("(name ILIKE ? OR code ILIKE ? OR sku ILIKE ?)", "%"+s+"%")
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Active != nil {
		w.add("active = ?", *f.Active)
	}

	conn := r.db.Conn(ctx)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM products`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	limitSQL, args := w.page(f.Limit, f.Offset)
	rows, err := conn.Query(ctx, `SELECT `+productColumns+` FROM products`+w.sql()+` ORDER BY name, id`+limitSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update implementa product.Repository.Update
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	p.UpdatedAt = time.Now().UTC()
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE products SET name = $2, code = $3, sku = $4, category = $5, description = $6,
			unit = $7, price = $8, picture = $9, active = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, nullIfEmpty(p.Code), nullIfEmpty(p.SKU), p.Category, p.Description,
		p.Unit, p.Price, p.Picture, p.Active, p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "products_code_key") {
			return product.ErrDuplicateCode
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete implementa product.Repository.Delete
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Conn(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// SetStock implementa product.Repository.SetStock
func (r *ProductRepository) SetStock(ctx context.Context, id string, stock decimal.Decimal) error {
	if stock.IsNegative() {
		return product.ErrNegativeStock
	}
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE products SET stock = $2, updated_at = $3 WHERE id = $1`, id, stock, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// DecrementStock implementa product.Repository.DecrementStock
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty decimal.Decimal) error {
	conn := r.db.Conn(ctx)
	tag, err := conn.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = $3 WHERE id = $1 AND stock >= $2`,
		id, qty, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return product.ErrNotFound
	}
	return product.ErrInsufficientStock
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	var code, sku *string
	err := row.Scan(&p.ID, &p.Name, &code, &sku, &p.Category, &p.Description, &p.Unit,
		&p.Price, &p.Stock, &p.Picture, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Code = derefString(code)
	p.SKU = derefString(sku)
	return &p, nil
}
