package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/gin-gonic/gin"
)

// SetupWorkSessionRoutes registra a jornada de trabalho; qualquer papel
// autenticado tem acesso e a posse da sessão é verificada no serviço
func SetupWorkSessionRoutes(router *gin.RouterGroup, sessionController *controller.WorkSessionController) {
	sessions := router.Group("/work-sessions")
	{
		sessions.GET("/active", sessionController.Active)
		sessions.GET("/history", sessionController.History)
		sessions.GET("/:id", sessionController.Recap)
		sessions.POST("/start", sessionController.Start)
		sessions.POST("/end", sessionController.End)
		sessions.POST("/expenses", sessionController.AddExpense)
	}
}
