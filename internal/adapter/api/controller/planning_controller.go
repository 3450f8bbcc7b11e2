package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/gin-gonic/gin"
)

// PlanningController gerencia a agenda dos comerciais
type PlanningController struct {
	plannings service.PlanningService
}

func NewPlanningController(plannings service.PlanningService) *PlanningController {
	return &PlanningController{plannings: plannings}
}

// Create agenda um dia de visitas; um por comercial e dia
func (c *PlanningController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.PlanningRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.plannings.Create(ctx.Request.Context(), actor.ID, planningInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusCreated, dto.ToPlanningResponse(p))
}

func (c *PlanningController) Get(ctx *gin.Context) {
	p, err := c.plannings.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPlanningResponse(p))
}

func (c *PlanningController) List(ctx *gin.Context) {
	var q dto.PlanningListQuery
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

	page, err := c.plannings.List(ctx.Request.Context(), service.PlanningQuery{
		PageRequest:  pageRequest(q.PaginationQuery),
		CommercialID: q.CommercialID,
		From:         from,
		To:           to,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, toPageResponse(page, dto.ToPlanningResponse))
}

func (c *PlanningController) ByDate(ctx *gin.Context) {
	date, ok := requiredDate(ctx, "date")
	if !ok {
		return
	}

	items, err := c.plannings.ByDate(ctx.Request.Context(), date)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPlanningResponses(items))
}

func (c *PlanningController) Update(ctx *gin.Context) {
	var req dto.PlanningRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.plannings.Update(ctx.Request.Context(), ctx.Param("id"), planningInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToPlanningResponse(p))
}

func (c *PlanningController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.plannings.Delete(ctx.Request.Context(), id); err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, gin.H{"id": id})
}

func planningInput(req dto.PlanningRequest) service.PlanningInput {
	return service.PlanningInput{
		CircuitID:    req.CircuitID,
		Title:        req.Title,
		Date:         req.Date,
		Time:         req.Time,
		Status:       req.Status,
		Stops:        req.Stops,
		CommercialID: req.CommercialID,
		ClientIDs:    req.ClientIDs,
		Notes:        req.Notes,
	}
}
