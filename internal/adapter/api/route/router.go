package route

import (
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
	"github.com/abdesslemchebili/rebornBackend/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers agrupa os controllers registrados no router
type Controllers struct {
	Auth        *controller.AuthController
	User        *controller.UserController
	WorkSession *controller.WorkSessionController
	Delivery    *controller.DeliveryController
	Payment     *controller.PaymentController
	Client      *controller.ClientController
	Product     *controller.ProductController
	Circuit     *controller.CircuitController
	Planning    *controller.PlanningController
}

// RouterConfig reúne o que o router precisa além dos controllers
type RouterConfig struct {
	APIPrefix string
	CORS      config.CORSConfig
	JWT       *auth.JWTService
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

// NewRouter monta o engine com os middlewares globais, /health, /metrics e
// as rotas da API sob o prefixo configurado
func NewRouter(cfg RouterConfig, c Controllers) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(cfg.Logger),
		middleware.Logger(cfg.Logger),
		middleware.Metrics(cfg.Metrics),
		middleware.CORS(cfg.CORS),
	)
	router.NoRoute(middleware.NotFound())

	router.GET("/health", controller.Health)
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	api := router.Group(cfg.APIPrefix)
	api.GET("/health", controller.Health)

	authMiddleware := auth.JWTAuthMiddleware(cfg.JWT)
	SetupAuthRoutes(api, authMiddleware, c.Auth)

	protected := api.Group("")
	protected.Use(authMiddleware)

	SetupUserRoutes(protected, c.User)
	SetupWorkSessionRoutes(protected, c.WorkSession)
	SetupDeliveryRoutes(protected, c.Delivery)
	SetupPaymentRoutes(protected, c.Payment)
	SetupClientRoutes(protected, c.Client)
	SetupProductRoutes(protected, c.Product)
	SetupCircuitRoutes(protected, c.Circuit)
	SetupPlanningRoutes(protected, c.Planning)

	return router
}
