package service

import (
	"context"
	"errors"
	"strings"

	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/product"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name        *string
	Code        *string
	SKU         *string
	Category    *string
	Description *string
	Unit        *string
	Price       *decimal.Decimal
	Stock       *decimal.Decimal
	Picture     *string
	Active      *bool
}

type ProductQuery struct {
	PageRequest
	Search   string
	Category string
	Active   *bool
}

type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*product.Product, error)
	Get(ctx context.Context, id string) (*product.Product, error)
	List(ctx context.Context, q ProductQuery) (*Page[*product.Product], error)
	Update(ctx context.Context, id string, in ProductInput) (*product.Product, error)
	SetStock(ctx context.Context, id string, stock decimal.Decimal) (*product.Product, error)
	Deactivate(ctx context.Context, id string) (*product.Product, error)
	Delete(ctx context.Context, id string) error
	Categories() []product.Category
}

type productService struct {
	products product.Repository
}

// NewProductService cria uma nova instância de ProductService
func NewProductService(products product.Repository) ProductService {
	return &productService{products: products}
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*product.Product, error) {
	var name, code string
	if in.Name != nil {
		name = *in.Name
	}
	if in.Code != nil {
		code = *in.Code
	}
	price, stock := decimal.Zero, decimal.Zero
	if in.Price != nil {
		price = *in.Price
	}
	if in.Stock != nil {
		stock = *in.Stock
	}

	p, err := product.NewProduct(name, code, price, stock)
	if err != nil {
		return nil, productValidationErr(err)
	}
	in.Name, in.Code, in.Price, in.Stock = nil, nil, nil, nil
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, mapProductErr(err)
	}
	return s.products.FindByID(ctx, p.ID)
}

func (s *productService) Get(ctx context.Context, id string) (*product.Product, error) {
	if !validID(id) {
		return nil, notFound(CodeProductNotFound, "Product not found")
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductErr(err)
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, q ProductQuery) (*Page[*product.Product], error) {
	req := q.PageRequest.Normalize()
	items, total, err := s.products.List(ctx, product.ListFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: q.Category,
		Active:   q.Active,
		Limit:    req.Limit,
		Offset:   req.Offset(),
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return newPage(items, req, total), nil
}

func (s *productService) Update(ctx context.Context, id string, in ProductInput) (*product.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductInput(p, in); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, mapProductErr(err)
	}
	return s.Get(ctx, id)
}

func (s *productService) SetStock(ctx context.Context, id string, stock decimal.Decimal) (*product.Product, error) {
	if stock.IsNegative() {
		return nil, apperror.BadRequest(CodeInvalidStock, "Stock cannot be negative")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.products.SetStock(ctx, id, stock); err != nil {
		return nil, mapProductErr(err)
	}
	return s.Get(ctx, id)
}

func (s *productService) Deactivate(ctx context.Context, id string) (*product.Product, error) {
	inactive := false
	return s.Update(ctx, id, ProductInput{Active: &inactive})
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound(CodeProductNotFound, "Product not found")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return mapProductErr(err)
	}
	return nil
}

func (s *productService) Categories() []product.Category {
	return product.Categories()
}

func applyProductInput(p *product.Product, in ProductInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return productValidationErr(product.ErrEmptyName)
		}
		p.Name = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return productValidationErr(product.ErrNegativePrice)
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if in.Stock.IsNegative() {
			return apperror.BadRequest(CodeInvalidStock, "Stock cannot be negative")
		}
		p.Stock = *in.Stock
	}
	if in.Code != nil {
		p.Code = strings.TrimSpace(*in.Code)
		if p.SKU == "" {
			p.SKU = p.Code
		}
	}
	setString(&p.SKU, in.SKU)
	setString(&p.Category, in.Category)
	setString(&p.Description, in.Description)
	setString(&p.Picture, in.Picture)
	if in.Unit != nil {
		p.Unit = strings.TrimSpace(*in.Unit)
		if p.Unit == "" {
			p.Unit = product.DefaultUnit
		}
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	return nil
}

func productValidationErr(err error) error {
	field := "name"
	switch {
	case errors.Is(err, product.ErrNegativePrice):
		field = "price"
	case errors.Is(err, product.ErrNegativeStock):
		field = "stock"
	}
	return apperror.Validation("Invalid product", apperror.FieldError{Field: field, Message: err.Error()})
}

func mapProductErr(err error) error {
	switch {
	case errors.Is(err, product.ErrNotFound):
		return notFound(CodeProductNotFound, "Product not found")
	case errors.Is(err, product.ErrDuplicateCode):
		return apperror.Conflict(apperror.CodeDuplicateKey, "Product with same code already exists")
	case errors.Is(err, product.ErrNegativeStock):
		return apperror.BadRequest(CodeInvalidStock, "Stock cannot be negative")
	}
	return apperror.Internal(err)
}
