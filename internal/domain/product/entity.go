package product

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrDuplicateCode     = errors.New("product with same code already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNegativeStock     = errors.New("stock cannot be negative")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrEmptyName         = errors.New("product name is required")
)

// DefaultUnit é a unidade usada quando nenhuma é informada
const DefaultUnit = "unit"

// Product representa um produto do catálogo
type Product struct {
	ID          string
	Name        string
	Code        string
	SKU         string
	Category    string
	Description string
	Unit        string
	Price       decimal.Decimal
	Stock       decimal.Decimal
	Picture     string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct cria um produto ativo
func NewProduct(name, code string, price, stock decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock.IsNegative() {
		return nil, ErrNegativeStock
	}

	code = strings.TrimSpace(code)
	now := time.Now().UTC()
	return &Product{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      code,
		SKU:       code,
		Unit:      DefaultUnit,
		Price:     price,
		Stock:     stock,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Category é uma entrada do catálogo fixo de categorias
type Category struct {
	ID    string
	Label string
}

// Categories devolve o catálogo fixo de categorias
func Categories() []Category {
	return []Category{
		{ID: "degreasing", Label: "Dégraissage"},
		{ID: "oil_remover", Label: "Détachant huile"},
		{ID: "engine", Label: "Moteur"},
		{ID: "car_wash", Label: "Lavage auto"},
	}
}
