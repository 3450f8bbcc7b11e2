package controller

import (
	"net/http"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// UserController gerencia as requisições relacionadas a usuários
type UserController struct {
	users  service.UserService
	logger logger.Logger
}

// NewUserController cria uma nova instância de UserController
func NewUserController(users service.UserService, logger logger.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

// Create cria um novo usuário
// @Summary Criar usuário
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "Dados do usuário"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	u, err := c.users.Create(ctx.Request.Context(), service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Usuário criado", "user_id", u.ID, "role", string(u.Role))
	dto.Success(ctx, http.StatusCreated, dto.ToUserResponse(u))
}

// Get retorna um usuário pelo ID
func (c *UserController) Get(ctx *gin.Context) {
	u, err := c.users.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToUserResponse(u))
}

// Me retorna o usuário autenticado
func (c *UserController) Me(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	u, err := c.users.Get(ctx.Request.Context(), actor.ID)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToUserResponse(u))
}

// List lista os usuários com paginação
func (c *UserController) List(ctx *gin.Context) {
	var q dto.UserListQuery
	if !bindQuery(ctx, &q) {
		return
	}
	active, err := dto.ParseBool("isActive", q.IsActive)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	page, err := c.users.List(ctx.Request.Context(), service.UserQuery{
		PageRequest: pageRequest(q.PaginationQuery),
		Role:        q.Role,
		IsActive:    active,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, toPageResponse(page, dto.ToUserResponse))
}

// Update atualiza um usuário
func (c *UserController) Update(ctx *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	u, err := c.users.Update(ctx.Request.Context(), ctx.Param("id"), service.UpdateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, dto.ToUserResponse(u))
}

// Delete remove um usuário; o administrador não pode remover a si mesmo
func (c *UserController) Delete(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id := ctx.Param("id")
	if err := c.users.Delete(ctx.Request.Context(), actor, id); err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.logger.Info("Usuário removido", "user_id", id, "deleted_by", actor.ID)
	dto.Success(ctx, http.StatusOK, gin.H{"id": id})
}
