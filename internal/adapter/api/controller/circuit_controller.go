package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/gin-gonic/gin"
)

// CircuitController gerencia as rotas de visita
type CircuitController struct {
	circuits service.CircuitService
}

func NewCircuitController(circuits service.CircuitService) *CircuitController {
	return &CircuitController{circuits: circuits}
}

func (c *CircuitController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.CircuitRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ci, err := c.circuits.Create(ctx.Request.Context(), actor, circuitInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusCreated, dto.ToCircuitResponse(ci))
}

func (c *CircuitController) Get(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	ci, err := c.circuits.Get(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToCircuitResponse(ci))
}

func (c *CircuitController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var q dto.CircuitListQuery
	if !bindQuery(ctx, &q) {
		return
	}
	active, err := dto.ParseBool("isActive", q.IsActive)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	page, err := c.circuits.List(ctx.Request.Context(), actor, service.CircuitQuery{
		PageRequest: pageRequest(q.PaginationQuery),
		Zone:        q.Zone,
		IsActive:    active,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, toPageResponse(page, dto.ToCircuitResponse))
}

// Clients lista os clientes do circuito ordenados por nome
func (c *CircuitController) Clients(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	items, err := c.circuits.Clients(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToClientResponses(items))
}

func (c *CircuitController) Update(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.CircuitRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ci, err := c.circuits.Update(ctx.Request.Context(), actor, ctx.Param("id"), circuitInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToCircuitResponse(ci))
}

func (c *CircuitController) Delete(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id := ctx.Param("id")
	if err := c.circuits.Delete(ctx.Request.Context(), actor, id); err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, gin.H{"id": id})
}

func circuitInput(req dto.CircuitRequest) service.CircuitInput {
	return service.CircuitInput{
		Name:              req.Name,
		Code:              req.Code,
		Zone:              req.Zone,
		Region:            req.Region,
		ClientIDs:         req.ClientIDs,
		Stops:             req.Stops,
		EstimatedDuration: req.EstimatedDuration,
		AssignedTo:        req.AssignedTo,
		Description:       req.Description,
		IsActive:          req.IsActive,
	}
}
