package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ClientController gerencia as requisições relacionadas a clientes
type ClientController struct {
	clients service.ClientService
	logger  logger.Logger
}

// NewClientController cria uma nova instância de ClientController
func NewClientController(clients service.ClientService, logger logger.Logger) *ClientController {
	return &ClientController{clients: clients, logger: logger}
}

// Create cria um novo cliente
// @Summary Criar cliente
// @Description Cria um novo cliente no sistema
// @Tags clients
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param client body dto.ClientRequest true "Dados do cliente"
// @Success 201 {object} dto.ClientResponse
// @Failure 409 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /clients [post]
func (c *ClientController) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.ClientRequest
	if !bindJSON(ctx, &req) {
		return
	}

	cl, err := c.clients.Create(ctx.Request.Context(), actor, clientInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Cliente criado", "client_id", cl.ID, "created_by", actor.ID)
	dto.Success(ctx, http.StatusCreated, dto.ToClientResponse(cl))
}

// Get retorna um cliente pelo ID
// @Summary Buscar cliente
// @Tags clients
// @Produce json
// @Param id path string true "ID do cliente"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} dto.Response
// @Router /clients/{id} [get]
func (c *ClientController) Get(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	cl, err := c.clients.Get(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToClientResponse(cl))
}

// List lista os clientes visíveis ao usuário
func (c *ClientController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var q dto.ClientListQuery
	if !bindQuery(ctx, &q) {
		return
	}
	archived, err := dto.ParseBool("archived", q.Archived)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	active, err := dto.ParseBool("isActive", q.IsActive)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	page, err := c.clients.List(ctx.Request.Context(), actor, service.ClientQuery{
		PageRequest: pageRequest(q.PaginationQuery),
		Segment:     q.Segment,
		Type:        q.Type,
		CircuitID:   q.CircuitID,
		Archived:    archived,
		IsActive:    active,
		Search:      q.Search,
		Sort:        q.Sort,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, toPageResponse(page, dto.ToClientResponse))
}

// Near lista os clientes ativos mais próximos de um ponto
// @Summary Clientes próximos
// @Tags clients
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param maxDistance query number false "Raio em km (padrão 50)"
// @Success 200 {array} dto.ClientResponse
// @Router /clients/near [get]
func (c *ClientController) Near(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var q dto.NearQuery
	if !bindQuery(ctx, &q) {
		return
	}
	lat, err := dto.ParseFloat("lat", q.Latitude)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	lng, err := dto.ParseFloat("lng", q.Longitude)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	items, err := c.clients.Near(ctx.Request.Context(), actor, service.NearQuery{
		Latitude:      lat,
		Longitude:     lng,
		MaxDistanceKm: q.MaxDistanceKm,
		Limit:         q.Limit,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToClientResponses(items))
}

// Update atualiza um cliente; a dívida não é alterada por aqui
func (c *ClientController) Update(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.ClientRequest
	if !bindJSON(ctx, &req) {
		return
	}

	cl, err := c.clients.Update(ctx.Request.Context(), actor, ctx.Param("id"), clientInput(req))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToClientResponse(cl))
}

// Delete remove um cliente
func (c *ClientController) Delete(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id := ctx.Param("id")
	if err := c.clients.Delete(ctx.Request.Context(), actor, id); err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Cliente removido", "client_id", id, "deleted_by", actor.ID)
	dto.Success(ctx, http.StatusOK, gin.H{"id": id})
}

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		Name:             req.Name,
		ShopName:         req.ShopName,
		Code:             req.Code,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address.ToAddress(),
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Type:             req.Type,
		Segment:          req.Segment,
		CircuitID:        req.CircuitID,
		LastVisit:        req.LastVisit,
		IsActive:         req.IsActive,
		Archived:         req.Archived,
		MatriculeFiscale: req.MatriculeFiscale,
		OwnerName:        req.OwnerName,
		OwnerPicture:     req.OwnerPicture,
		ShopPicture:      req.ShopPicture,
		Notes:            req.Notes,
	}
}
