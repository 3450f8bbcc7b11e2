package client

import (
	"context"

	"github.com/shopspring/decimal"
)

// SortField enumera as colunas aceitas para ordenação
type SortField string

const (
	SortName      SortField = "name"
	SortShopName  SortField = "shopName"
	SortCreatedAt SortField = "createdAt"
	SortTotalDebt SortField = "totalDebt"
)

// Sort descreve a ordenação da listagem
type Sort struct {
	Field SortField
	Desc  bool
}

// ListFilter define os filtros da listagem de clientes
type ListFilter struct {
	Scope     Scope
	Segment   Segment
	Type      Type
	CircuitID string
	Archived  *bool
	IsActive  *bool
	Search    string
	Sort      Sort
	Limit     int
	Offset    int
}

// NearFilter busca clientes ativos ao redor de um ponto
type NearFilter struct {
	Scope         Scope
	Latitude      float64
	Longitude     float64
	MaxDistanceKm float64
	Limit         int
}

// Repository define a interface para operações de repositório de clientes
type Repository interface {
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, f ListFilter) ([]*Client, int, error)
	Near(ctx context.Context, f NearFilter) ([]*Client, error)
	ListByCircuit(ctx context.Context, circuitID string, scope Scope) ([]*Client, error)

	// Update grava os campos cadastrais; total_debt nunca é alterado aqui
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id string) error

	// AddDebt soma delta (positivo ou negativo) à dívida. ErrNotFound se o
	// cliente não existir.
	AddDebt(ctx context.Context, id string, delta decimal.Decimal) error

	// SettleDebt subtrai amount somente se total_debt >= amount no momento
	// da escrita. ErrInsufficientDebt caso contrário.
	SettleDebt(ctx context.Context, id string, amount decimal.Decimal) error
}
