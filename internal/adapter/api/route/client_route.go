package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupClientRoutes registra as rotas do módulo de clientes
func SetupClientRoutes(router *gin.RouterGroup, clientController *controller.ClientController) {
	clients := router.Group("/clients")
	{
		readers := auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleCommercial, user.RoleDelivery)
		clients.GET("", readers, clientController.List)
		clients.GET("/near", readers, clientController.Near)
		clients.GET("/:id", readers, clientController.Get)

		writers := auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleCommercial)
		clients.POST("", writers, clientController.Create)
		clients.PUT("/:id", writers, clientController.Update)
		clients.PATCH("/:id", writers, clientController.Update)

		clients.DELETE("/:id", auth.RoleAuthMiddleware(user.RoleAdmin), clientController.Delete)
	}
}
