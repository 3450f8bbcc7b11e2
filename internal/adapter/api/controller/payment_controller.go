package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// PaymentController gerencia as requisições relacionadas a pagamentos
type PaymentController struct {
	payments service.PaymentService
	logger   logger.Logger
}

// NewPaymentController cria uma nova instância de PaymentController
func NewPaymentController(payments service.PaymentService, logger logger.Logger) *PaymentController {
	return &PaymentController{payments: payments, logger: logger}
}

// Create registra um pagamento e abate a dívida do cliente
// @Summary Registrar pagamento
// @Tags payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payment body dto.CreatePaymentRequest true "Dados do pagamento"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.Response
// @Router /payments [post]
func (c *PaymentController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.payments.Create(ctx.Request.Context(), actor.ID, service.CreatePaymentInput{
		ClientID:   req.ClientID,
		DeliveryID: req.DeliveryID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Method:     req.Method,
		Status:     req.Status,
		PaidAt:     req.PaidAt,
		ReceivedBy: req.ReceivedBy,
		Notes:      req.Notes,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Pagamento registrado", "payment_id", p.ID, "client_id", p.ClientID, "amount", p.Amount.String())
	dto.Success(ctx, http.StatusCreated, dto.ToPaymentResponse(p))
}

// Get retorna um pagamento pelo ID
func (c *PaymentController) Get(ctx *gin.Context) {
	p, err := c.payments.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPaymentResponse(p))
}

// List lista os pagamentos com o resumo do filtro
// @Summary Listar pagamentos
// @Tags payments
// @Produce json
// @Param client query string false "Cliente"
// @Param method query string false "Forma de pagamento"
// @Param status query string false "Status"
// @Param fromDate query string false "Data inicial"
// @Param toDate query string false "Data final"
// @Success 200 {object} dto.PaymentPageResponse
// @Router /payments [get]
func (c *PaymentController) List(ctx *gin.Context) {
	var q dto.PaymentListQuery
	if !bindQuery(ctx, &q) {
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

	result, err := c.payments.List(ctx.Request.Context(), service.PaymentQuery{
		PageRequest: pageRequest(q.PaginationQuery),
		ClientID:    q.ClientID,
		Method:      q.Method,
		Status:      q.Status,
		From:        from,
		To:          to,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.PaymentPageResponse{
		PageResponse: toPageResponse(result.Items, dto.ToPaymentResponse),
		Summary:      dto.ToPaymentSummary(result.Summary),
	})
}

// Summary devolve só o resumo do filtro
func (c *PaymentController) Summary(ctx *gin.Context) {
	var q dto.PaymentListQuery
	if !bindQuery(ctx, &q) {
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

	result, err := c.payments.List(ctx.Request.Context(), service.PaymentQuery{
		PageRequest: service.PageRequest{Page: 1, Limit: 1},
		ClientID:    q.ClientID,
		Method:      q.Method,
		Status:      q.Status,
		From:        from,
		To:          to,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPaymentSummary(result.Summary))
}

func (c *PaymentController) ByClient(ctx *gin.Context) {
	items, err := c.payments.ByClient(ctx.Request.Context(), ctx.Param("clientId"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPaymentResponses(items))
}

// ByDateRange lista os pagamentos entre fromDate e toDate
func (c *PaymentController) ByDateRange(ctx *gin.Context) {
	from, ok := requiredDate(ctx, "fromDate")
	if !ok {
		return
	}
	to, ok := requiredDate(ctx, "toDate")
	if !ok {
		return
	}

	items, err := c.payments.ByDateRange(ctx.Request.Context(), &from, &to)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPaymentResponses(items))
}

// Update altera um pagamento; cancelled devolve o valor à dívida
func (c *PaymentController) Update(ctx *gin.Context) {
	var req dto.UpdatePaymentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.payments.Update(ctx.Request.Context(), ctx.Param("id"), service.UpdatePaymentInput{
		DeliveryID: req.DeliveryID,
		Currency:   req.Currency,
		Method:     req.Method,
		Status:     req.Status,
		PaidAt:     req.PaidAt,
		Notes:      req.Notes,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPaymentResponse(p))
}

// Delete remove o pagamento e restaura a dívida do cliente
func (c *PaymentController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.payments.Delete(ctx.Request.Context(), id); err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Pagamento removido", "payment_id", id)
	dto.Success(ctx, http.StatusOK, gin.H{"id": id})
}
