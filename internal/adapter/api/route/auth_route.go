package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		// Login e renovação não exigem token de acesso
		authRouter.POST("/login", authController.Login)
		authRouter.POST("/refresh", authController.Refresh)

		authRouter.POST("/logout", authMiddleware, authController.Logout)
		authRouter.GET("/me", authMiddleware, authController.Me)
		authRouter.POST("/register", authMiddleware, auth.RoleAuthMiddleware(user.RoleAdmin), authController.Register)
	}
}
