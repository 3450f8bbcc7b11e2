package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// DeliveryController gerencia as requisições relacionadas a entregas
type DeliveryController struct {
	deliveries service.DeliveryService
	logger     logger.Logger
}

// NewDeliveryController cria uma nova instância de DeliveryController
func NewDeliveryController(deliveries service.DeliveryService, logger logger.Logger) *DeliveryController {
	return &DeliveryController{deliveries: deliveries, logger: logger}
}

// Create cria uma nova entrega e lança o total na dívida do cliente
// @Summary Criar entrega
// @Tags deliveries
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param delivery body dto.CreateDeliveryRequest true "Dados da entrega"
// @Success 201 {object} dto.DeliveryResponse
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /deliveries [post]
func (c *DeliveryController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateDeliveryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lines := make([]service.LineInput, 0, len(req.Products))
	for _, l := range req.Products {
		lines = append(lines, service.LineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	d, err := c.deliveries.Create(ctx.Request.Context(), actor.ID, service.CreateDeliveryInput{
		ClientID:    req.ClientID,
		CircuitID:   req.CircuitID,
		Lines:       lines,
		PaymentType: req.PaymentType,
		AssignedTo:  req.AssignedTo,
		PlannedDate: req.PlannedDate,
		ProofPhoto:  req.ProofPhoto,
		Notes:       req.Notes,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Entrega criada", "delivery_id", d.ID, "client_id", d.ClientID, "total", d.TotalAmount.String())
	dto.Success(ctx, http.StatusCreated, dto.ToDeliveryResponse(d))
}

// Get retorna uma entrega pelo ID
// @Summary Buscar entrega
// @Tags deliveries
// @Produce json
// @Param id path string true "ID da entrega"
// @Success 200 {object} dto.DeliveryResponse
// @Failure 404 {object} dto.Response
// @Router /deliveries/{id} [get]
func (c *DeliveryController) Get(ctx *gin.Context) {
	d, err := c.deliveries.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToDeliveryResponse(d))
}

// List lista as entregas com filtros e paginação
func (c *DeliveryController) List(ctx *gin.Context) {
	var q dto.DeliveryListQuery
	if !bindQuery(ctx, &q) {
		return
	}
	date, err := dto.ParseDate("date", q.Date)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	from, err := dto.ParseDate("fromDate", q.FromDate)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	to, err := dto.ParseDate("toDate", q.ToDate)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	page, err := c.deliveries.List(ctx.Request.Context(), service.DeliveryQuery{
		PageRequest: pageRequest(q.PaginationQuery),
		ClientID:    q.ClientID,
		CircuitID:   q.CircuitID,
		Status:      q.Status,
		Date:        date,
		From:        from,
		To:          to,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, toPageResponse(page, dto.ToDeliveryResponse))
}

// ByDate lista as entregas previstas para um dia
func (c *DeliveryController) ByDate(ctx *gin.Context) {
	date, ok := requiredDate(ctx, "date")
	if !ok {
		return
	}

	items, err := c.deliveries.ByDate(ctx.Request.Context(), date)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToDeliveryResponses(items))
}

// ByClient lista as entregas de um cliente
func (c *DeliveryController) ByClient(ctx *gin.Context) {
	items, err := c.deliveries.ByClient(ctx.Request.Context(), ctx.Param("clientId"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToDeliveryResponses(items))
}

// Update altera os metadados de uma entrega ainda não entregue
func (c *DeliveryController) Update(ctx *gin.Context) {
	var req dto.UpdateDeliveryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	d, err := c.deliveries.Update(ctx.Request.Context(), ctx.Param("id"), service.UpdateDeliveryInput{
		CircuitID:   req.CircuitID,
		AssignedTo:  req.AssignedTo,
		PlannedDate: req.PlannedDate,
		ProofPhoto:  req.ProofPhoto,
		Notes:       req.Notes,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToDeliveryResponse(d))
}

// UpdateStatus avança a entrega; delivered baixa o estoque
// @Summary Alterar status da entrega
// @Tags deliveries
// @Accept json
// @Produce json
// @Param id path string true "ID da entrega"
// @Param status body dto.DeliveryStatusRequest true "Novo status"
// @Success 200 {object} dto.DeliveryResponse
// @Failure 400 {object} dto.Response
// @Router /deliveries/{id}/status [patch]
func (c *DeliveryController) UpdateStatus(ctx *gin.Context) {
	var req dto.DeliveryStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	d, err := c.deliveries.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), service.StatusInput{
		Status:       req.Status,
		CompletedAt:  req.CompletedAt,
		DeliveryDate: req.DeliveryDate,
		ProofPhoto:   req.ProofPhoto,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToDeliveryResponse(d))
}

// Delete remove a entrega e estorna a dívida do cliente
func (c *DeliveryController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.deliveries.Delete(ctx.Request.Context(), id); err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Entrega removida", "delivery_id", id)
	dto.Success(ctx, http.StatusOK, gin.H{"id": id})
}
