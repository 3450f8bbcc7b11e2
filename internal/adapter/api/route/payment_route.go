package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registra as rotas do módulo de pagamentos
func SetupPaymentRoutes(router *gin.RouterGroup, paymentController *controller.PaymentController) {
	payments := router.Group("/payments")
	{
		staff := auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleCommercial)
		payments.GET("", staff, paymentController.List)
		payments.GET("/summary", staff, paymentController.Summary)
		payments.GET("/by-client/:clientId", staff, paymentController.ByClient)
		payments.GET("/by-date-range", staff, paymentController.ByDateRange)
		payments.GET("/:id", staff, paymentController.Get)
		payments.POST("", staff, paymentController.Create)
		payments.PATCH("/:id", staff, paymentController.Update)

		payments.DELETE("/:id", auth.RoleAuthMiddleware(user.RoleAdmin), paymentController.Delete)
	}
}
