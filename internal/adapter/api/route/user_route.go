package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes configura as rotas para o módulo de usuários
func SetupUserRoutes(router *gin.RouterGroup, userController *controller.UserController) {
	userRouter := router.Group("/users")
	{
		userRouter.GET("/me", userController.Me)

		readers := auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleCommercial)
		userRouter.GET("", readers, userController.List)
		userRouter.GET("/:id", readers, userController.Get)

		admin := auth.RoleAuthMiddleware(user.RoleAdmin)
		userRouter.POST("", admin, userController.Create)
		userRouter.PATCH("/:id", admin, userController.Update)
		userRouter.DELETE("/:id", admin, userController.Delete)
	}
}
