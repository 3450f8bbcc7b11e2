package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/user"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/gin-gonic/gin"
)

var allRoles = []user.Role{user.RoleAdmin, user.RoleCommercial, user.RoleDelivery}

// SetupProductRoutes registra produtos e categorias; só ADMIN altera o catálogo
func SetupProductRoutes(router *gin.RouterGroup, productController *controller.ProductController) {
	router.GET("/categories", productController.Categories)

	products := router.Group("/products")
	{
		readers := auth.RoleAuthMiddleware(allRoles...)
		products.GET("", readers, productController.List)
		products.GET("/:id", readers, productController.Get)

		admin := auth.RoleAuthMiddleware(user.RoleAdmin)
		products.POST("", admin, productController.Create)
		products.PUT("/:id", admin, productController.Update)
		products.PATCH("/:id", admin, productController.Update)
		products.PATCH("/:id/stock", admin, productController.SetStock)
		products.PATCH("/:id/deactivate", admin, productController.Deactivate)
		products.DELETE("/:id", admin, productController.Delete)
	}
}

// SetupCircuitRoutes registra as rotas de circuitos
func SetupCircuitRoutes(router *gin.RouterGroup, circuitController *controller.CircuitController) {
	circuits := router.Group("/circuits")
	{
		readers := auth.RoleAuthMiddleware(allRoles...)
		circuits.GET("", readers, circuitController.List)
		circuits.GET("/:id/clients", readers, circuitController.Clients)
		circuits.GET("/:id", readers, circuitController.Get)

		writers := auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleCommercial)
		circuits.POST("", writers, circuitController.Create)
		circuits.PATCH("/:id", writers, circuitController.Update)

		circuits.DELETE("/:id", auth.RoleAuthMiddleware(user.RoleAdmin), circuitController.Delete)
	}
}

// SetupPlanningRoutes registra a agenda; criação restrita a ADMIN e COMMERCIAL
func SetupPlanningRoutes(router *gin.RouterGroup, planningController *controller.PlanningController) {
	plannings := router.Group("/planning")
	{
		readers := auth.RoleAuthMiddleware(allRoles...)
		plannings.GET("", readers, planningController.List)
		plannings.GET("/by-date", readers, planningController.ByDate)
		plannings.GET("/:id", readers, planningController.Get)
		plannings.PUT("/:id", readers, planningController.Update)
		plannings.PATCH("/:id", readers, planningController.Update)
		plannings.DELETE("/:id", readers, planningController.Delete)

		plannings.POST("", auth.RoleAuthMiddleware(user.RoleAdmin, user.RoleCommercial), planningController.Create)
	}
}
