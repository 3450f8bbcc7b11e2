package dto

import (
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/shopspring/decimal"
)

// ProductRequest serve para criação e atualização de produtos
type ProductRequest struct {
	Name        *string          `json:"name"`
	Code        *string          `json:"code"`
	SKU         *string          `json:"sku"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Unit        *string          `json:"unit"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *decimal.Decimal `json:"stock"`
	Picture     *string          `json:"picture"`
	Active      *bool            `json:"active"`
}

// StockRequest é o corpo de PATCH /products/:id/stock
type StockRequest struct {
	Stock *decimal.Decimal `json:"stock" binding:"required"`
}

type ProductListQuery struct {
	PaginationQuery
	Search   string `form:"search"`
	Category string `form:"category"`
	Active   string `form:"active"`
}

// ProductResponse representa um produto na API
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Stock       decimal.Decimal `json:"stock"`
	Picture     string          `json:"picture,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CategoryResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func ToProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		SKU:         p.SKU,
		Category:    p.Category,
		Description: p.Description,
		Unit:        p.Unit,
		Price:       p.Price,
		Stock:       p.Stock,
		Picture:     p.Picture,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponses(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToProductResponse(p))
	}
	return out
}

func ToCategoryResponses(items []product.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, CategoryResponse{ID: c.ID, Label: c.Label})
	}
	return out
}
