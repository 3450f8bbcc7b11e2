package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/controller"
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/route"
	"github.com/abdesslemchebili/rebornBackend/internal/adapter/repository"
	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/cache"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/abdesslemchebili/rebornBackend/internal/service"
	"github.com/abdesslemchebili/rebornBackend/pkg/auth"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// App representa a aplicação e suas dependências
type App struct {
	cfg    *config.Config
	logger logger.Logger
	db     *database.PostgresDB
	redis  *redis.Client
	router *gin.Engine
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Configurar banco de dados
	db, err := database.NewPostgresDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.JWT)
	if err != nil {
		db.Close()
		_ = rdb.Close()
		return nil, err
	}

	m := metrics.New()

	// Criar repositórios
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(rdb)
	clientRepo := repository.NewClientRepository(db)
	productRepo := repository.NewProductRepository(db)
	circuitRepo := repository.NewCircuitRepository(db)
	planningRepo := repository.NewPlanningRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	sessionRepo := repository.NewWorkSessionRepository(db)

	// Criar serviços
	workSessions := service.NewWorkSessionService(sessionRepo, sessionRepo, log)
	poster := service.NewSessionPoster(sessionRepo, workSessions, log, m)
	users := service.NewUserService(userRepo)

	controllers := route.Controllers{
		Auth:        controller.NewAuthController(service.NewAuthService(userRepo, tokenRepo, jwtService, log), users, log, cfg.IsProduction()),
		User:        controller.NewUserController(users, log),
		WorkSession: controller.NewWorkSessionController(workSessions),
		Delivery:    controller.NewDeliveryController(service.NewDeliveryService(db, deliveryRepo, clientRepo, productRepo, poster, log, m), log),
		Payment:     controller.NewPaymentController(service.NewPaymentService(db, paymentRepo, clientRepo, poster, log, m), log),
		Client:      controller.NewClientController(service.NewClientService(clientRepo, log), log),
		Product:     controller.NewProductController(service.NewProductService(productRepo)),
		Circuit:     controller.NewCircuitController(service.NewCircuitService(circuitRepo, clientRepo)),
		Planning:    controller.NewPlanningController(service.NewPlanningService(planningRepo)),
	}

	router := route.NewRouter(route.RouterConfig{
		APIPrefix: cfg.APIPrefix,
		CORS:      cfg.CORS,
		JWT:       jwtService,
		Logger:    log,
		Metrics:   m,
	}, controllers)

	return &App{cfg: cfg, logger: log, db: db, redis: rdb, router: router}, nil
}

// Run inicia o servidor e bloqueia até SIGINT/SIGTERM, encerrando as
// requisições em andamento antes de sair
func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Servidor iniciado", "port", a.cfg.Port, "env", a.cfg.Env, "prefix", a.cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		a.logger.Info("Encerrando servidor", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("Servidor encerrado")
	return nil
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	_ = a.logger.Sync()
}
