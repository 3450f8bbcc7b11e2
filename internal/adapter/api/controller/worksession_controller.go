package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/gin-gonic/gin"
)

// WorkSessionController gerencia as requisições da jornada de trabalho do agente
type WorkSessionController struct {
	sessions service.WorkSessionService
}

// NewWorkSessionController cria uma nova instância de WorkSessionController
func NewWorkSessionController(sessions service.WorkSessionService) *WorkSessionController {
	return &WorkSessionController{sessions: sessions}
}

// Start abre a jornada do agente autenticado
// @Summary Iniciar jornada
// @Tags work-sessions
// @Accept json
// @Produce json
// @Param body body dto.StartSessionRequest false "Horário de início"
// @Success 201 {object} dto.SessionEnvelope
// @Failure 409 {object} dto.Response
// @Router /work-sessions/start [post]
func (c *WorkSessionController) Start(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.StartSessionRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}

	view, err := c.sessions.Start(ctx.Request.Context(), actor.ID, req.StartTime)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusCreated, dto.SessionEnvelope{Session: toSessionResponse(view)})
}

// End encerra a jornada e congela a receita
// @Summary Encerrar jornada
// @Tags work-sessions
// @Accept json
// @Produce json
// @Param body body dto.EndSessionRequest false "Sessão e horário de término"
// @Success 200 {object} dto.EndSessionResponse
// @Failure 404 {object} dto.Response
// @Router /work-sessions/end [post]
func (c *WorkSessionController) End(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.EndSessionRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}

	view, err := c.sessions.End(ctx.Request.Context(), actor.ID, req.SessionID, req.EndTime)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	resp := toSessionResponse(view)
	dto.Success(ctx, http.StatusOK, dto.EndSessionResponse{EndTime: resp.EndTime, Session: resp})
}

// Active devolve {session: null} quando o agente não tem jornada aberta
func (c *WorkSessionController) Active(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	view, err := c.sessions.Active(ctx.Request.Context(), actor.ID)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.SessionEnvelope{Session: toSessionResponse(view)})
}

// History lista as jornadas do agente, mais recentes primeiro
// @Summary Histórico de jornadas
// @Tags work-sessions
// @Produce json
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Param fromDate query string false "Início mínimo"
// @Param toDate query string false "Início máximo"
// @Router /work-sessions/history [get]
func (c *WorkSessionController) History(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var q dto.HistoryQuery
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

	page, err := c.sessions.History(ctx.Request.Context(), actor.ID, service.HistoryQuery{
		PageRequest: pageRequest(q.PaginationQuery),
		From:        from,
		To:          to,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, toPageResponse(page, toSessionResponse))
}

// Recap devolve o resumo completo de uma jornada; só o dono tem acesso
func (c *WorkSessionController) Recap(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	view, err := c.sessions.Recap(ctx.Request.Context(), ctx.Param("id"), actor.ID)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.SessionEnvelope{Session: toSessionResponse(view)})
}

// AddExpense lança uma despesa na jornada aberta
func (c *WorkSessionController) AddExpense(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	amount, err := req.ParsedAmount()
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	view, err := c.sessions.RecordExpense(ctx.Request.Context(), actor.ID, amount, req.Label)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusCreated, dto.SessionEnvelope{Session: toSessionResponse(view)})
}

func toSessionResponse(v *service.SessionView) *dto.SessionResponse {
	if v == nil || v.Session == nil {
		return nil
	}
	ws := v.Session
	return &dto.SessionResponse{
		ID:                   ws.ID,
		AgentID:              ws.AgentID,
		Status:               string(ws.Status),
		StartTime:            ws.StartTime,
		EndTime:              ws.EndTime,
		TotalCash:            ws.Totals.CashCollected,
		TotalCreditCollected: ws.Totals.CreditCollected,
		TotalCreditSales:     ws.Totals.CreditSales,
		TotalExpenses:        ws.Totals.Expenses,
		TotalRevenue:         v.TotalRevenue,
		CashPayments:         toSessionPaymentLines(v.CashPayments),
		CreditPayments:       toSessionPaymentLines(v.CreditPayments),
		CreditSales:          toSessionPaymentLines(v.CreditSales),
		Expenses:             toSessionExpenseLines(v.Expenses),
		DeliveriesCompleted:  toSessionDeliveryLines(v.DeliveriesCompleted),
		DurationMinutes:      v.DurationMinutes,
	}
}

func toSessionPaymentLines(lines []service.PaymentLine) []dto.SessionPaymentLine {
	out := make([]dto.SessionPaymentLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.SessionPaymentLine{
			ID:         l.ID,
			ClientID:   l.ClientID,
			ClientName: l.ClientName,
			Amount:     l.Amount,
			Method:     string(l.Method),
			Time:       l.Time,
		})
	}
	return out
}

func toSessionDeliveryLines(lines []service.DeliveryLine) []dto.SessionDeliveryLine {
	out := make([]dto.SessionDeliveryLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.SessionDeliveryLine{
			ID:         l.ID,
			DeliveryID: l.DeliveryID,
			ClientID:   l.ClientID,
			ClientName: l.ClientName,
			Total:      l.Total,
			Type:       string(l.Type),
			Time:       l.Time,
		})
	}
	return out
}

func toSessionExpenseLines(lines []service.ExpenseLine) []dto.SessionExpenseLine {
	out := make([]dto.SessionExpenseLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.SessionExpenseLine{ID: l.ID, Label: l.Label, Amount: l.Amount, Time: l.Time})
	}
	return out
}
