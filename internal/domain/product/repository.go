package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// ListFilter define os filtros da listagem de produtos
type ListFilter struct {
	Search   string
	Category string
	Active   *bool
	Limit    int
	Offset   int
}

// Repository define a interface para operações de repositório de produtos
type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f ListFilter) ([]*Product, int, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error

	// SetStock grava o estoque absoluto (ajuste administrativo)
	SetStock(ctx context.Context, id string, stock decimal.Decimal) error

	// DecrementStock subtrai qty somente se stock >= qty no momento da
	// escrita. ErrInsufficientStock ou ErrNotFound caso contrário.
	DecrementStock(ctx context.Context, id string, qty decimal.Decimal) error
}
