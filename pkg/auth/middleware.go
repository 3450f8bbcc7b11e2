package auth

import (
	"errors"
	"strings"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// AccessTokenCookie é o cookie aceito quando não há cabeçalho Authorization
const AccessTokenCookie = "accessToken"

const (
	ctxUserID    = "user_id"
	ctxUserRole  = "user_role"
	ctxUserEmail = "user_email"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT
func JWTAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			dto.WriteError(c, err)
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				dto.WriteError(c, apperror.Unauthorized(apperror.CodeInvalidToken, "Token expired"))
				return
			}
			dto.WriteError(c, apperror.Unauthorized(apperror.CodeInvalidToken, "Invalid token"))
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxUserEmail, claims.Email)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperror.Unauthorized(apperror.CodeInvalidToken, "Use the format 'Bearer <token>'")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", apperror.Unauthorized(apperror.CodeUnauthorized, "Authentication required")
}

// RoleAuthMiddleware cria um middleware para verificação de papel do usuário
func RoleAuthMiddleware(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			dto.WriteError(c, apperror.Unauthorized(apperror.CodeUnauthorized, "Authentication required"))
			return
		}

		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		dto.WriteError(c, apperror.Forbidden(apperror.CodeForbidden, "You do not have permission to access this resource"))
	}
}

// CurrentActor obtém o usuário autenticado do contexto
func CurrentActor(c *gin.Context) (user.Actor, bool) {
	id := c.GetString(ctxUserID)
	if id == "" {
		return user.Actor{}, false
	}
	role, _ := c.Get(ctxUserRole)
	r, _ := role.(user.Role)
	return user.Actor{ID: id, Role: r}, true
}

// SetActor grava o usuário no contexto; usado por testes de controller
func SetActor(c *gin.Context, actor user.Actor) {
	c.Set(ctxUserID, actor.ID)
	c.Set(ctxUserRole, actor.Role)
}
