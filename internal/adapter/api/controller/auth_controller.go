package controller

import (
	"net/http"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuthController gerencia as requisições relacionadas à autenticação
type AuthController struct {
	auth          service.AuthService
	users         service.UserService
	logger        logger.Logger
	secureCookies bool
}

// NewAuthController cria uma nova instância de AuthController. secureCookies
// marca o cookie de acesso como Secure (produção).
func NewAuthController(authService service.AuthService, users service.UserService, logger logger.Logger, secureCookies bool) *AuthController {
	return &AuthController{
		auth:          authService,
		users:         users,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// Login autentica um usuário e retorna o par de tokens
// @Summary Autentica um usuário
// @Description Verifica as credenciais do usuário e retorna os tokens JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.Response
// @Failure 422 {object} dto.Response
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.auth.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.logger.Warn("Falha de login", "email", req.Email)
		dto.WriteError(ctx, err)
		return
	}

	c.setAccessCookie(ctx, result.Tokens.AccessToken, result.Tokens.AccessExpiresAt)
	dto.Success(ctx, http.StatusOK, toLoginResponse(result))
}

// Refresh troca o token de renovação por um par novo
// @Summary Renova o token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Token de renovação"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} dto.Response
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.auth.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}

	c.setAccessCookie(ctx, result.Tokens.AccessToken, result.Tokens.AccessExpiresAt)
	dto.Success(ctx, http.StatusOK, toLoginResponse(result))
}

// Logout revoga o token de renovação informado e limpa o cookie
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.LogoutRequest
	if !bindOptionalJSON(ctx, &req) {
		return
	}

	if err := c.auth.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		dto.WriteError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(auth.AccessTokenCookie, "", -1, "/", "", c.secureCookies, true)
	dto.Success(ctx, http.StatusOK, gin.H{})
}

// Me retorna o usuário autenticado
// @Summary Usuário atual
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	u, err := c.auth.Me(ctx.Request.Context(), actor.ID)
	if err != nil {
		dto.WriteError(ctx, err)
		return
	}
	dto.Success(ctx, http.StatusOK, gin.H{"user": dto.ToUserResponse(u)})
}

// Register cria um usuário; restrito a ADMIN
func (c *AuthController) Register(ctx *gin.Context) {
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

	c.logger.Info("Usuário registrado", "user_id", u.ID, "role", string(u.Role))
	dto.Success(ctx, http.StatusCreated, dto.ToUserResponse(u))
}

func (c *AuthController) setAccessCookie(ctx *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(auth.AccessTokenCookie, token, maxAge, "/", "", c.secureCookies, true)
}

func toLoginResponse(result *service.AuthResult) dto.LoginResponse {
	return dto.LoginResponse{
		User: dto.ToUserResponse(result.User),
		Tokens: dto.TokensResponse{
			AccessToken:      result.Tokens.AccessToken,
			RefreshToken:     result.Tokens.RefreshToken,
			AccessExpiresAt:  result.Tokens.AccessExpiresAt,
			RefreshExpiresAt: result.Tokens.RefreshExpiresAt,
		},
	}
}
