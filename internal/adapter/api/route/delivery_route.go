package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupDeliveryRoutes registra as rotas do módulo de entregas
func SetupDeliveryRoutes(router *gin.RouterGroup, deliveryController *controller.DeliveryController) {
	deliveries := router.Group("/deliveries")
	{
		readers := auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleCommercial, user.RoleDelivery)
		deliveries.GET("", readers, deliveryController.List)
		deliveries.GET("/by-date", readers, deliveryController.ByDate)
		deliveries.GET("/by-client/:clientId", readers, deliveryController.ByClient)
		deliveries.GET("/:id", readers, deliveryController.Get)

		writers := auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleDelivery)
		deliveries.POST("", writers, deliveryController.Create)
		deliveries.PATCH("/:id", writers, deliveryController.Update)
		deliveries.PATCH("/:id/status", writers, deliveryController.UpdateStatus)

		deliveries.DELETE("/:id", auth.RoleAuthMiddleware(user.RoleAdmin), deliveryController.Delete)
	}
}
