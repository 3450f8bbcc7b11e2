package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/gin-gonic/gin"
)

// ProductController gerencia o catálogo de produtos
type ProductController struct {
	products service.ProductService
}

func NewProductController(products service.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Create cria um produto
// @Summary Criar produto
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} dto.ProductResponse
// @Router /products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.products.Create(ctx.Request.Context(), productInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusCreated, dto.ToProductResponse(p))
}

func (c *ProductController) Get(ctx *gin.Context) {
	p, err := c.products.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToProductResponse(p))
}

func (c *ProductController) List(ctx *gin.Context) {
	var q dto.ProductListQuery
	if !bindQuery(ctx, &q) {
		return
	}
	active, err := dto.ParseBool("active", q.Active)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	page, err := c.products.List(ctx.Request.Context(), service.ProductQuery{
		PageRequest: pageRequest(q.PaginationQuery),
		Search:      q.Search,
		Category:    q.Category,
		Active:      active,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, toPageResponse(page, dto.ToProductResponse))
}

// Categories devolve a lista fixa de categorias no formato {results}
func (c *ProductController) Categories(ctx *gin.Context) {
	dto.Success(ctx, http.StatusOK, gin.H{"results": dto.ToCategoryResponses(c.products.Categories())})
}

func (c *ProductController) Update(ctx *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.products.Update(ctx.Request.Context(), ctx.Param("id"), productInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToProductResponse(p))
}

// SetStock define o estoque; valores negativos são rejeitados
func (c *ProductController) SetStock(ctx *gin.Context) {
	var req dto.StockRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.products.SetStock(ctx.Request.Context(), ctx.Param("id"), *req.Stock)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToProductResponse(p))
}

func (c *ProductController) Deactivate(ctx *gin.Context) {
	p, err := c.products.Deactivate(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToProductResponse(p))
}

func (c *ProductController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.products.Delete(ctx.Request.Context(), id); err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, gin.H{"id": id})
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Code:        req.Code,
		SKU:         req.SKU,
		Category:    req.Category,
		Description: req.Description,
		Unit:        req.Unit,
		Price:       req.Price,
		Stock:       req.Stock,
		Picture:     req.Picture,
		Active:      req.Active,
	}
}
