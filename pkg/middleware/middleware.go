// Package middleware reúne os middlewares gin comuns a todas as rotas.
package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/abdesslemchebili/rebornBackend/pkg/logger"
	"github.com/abdesslemchebili/rebornBackend/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader é o cabeçalho de correlação devolvido em toda resposta
const RequestIDHeader = "X-Request-ID"

const ctxRequestID = "request_id"

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9\-]{1,64}$`)

// RequestID aceita o ID enviado pelo cliente quando seguro; senão gera um UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID devolve o ID da requisição atual
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// Logger registra método, rota, status e duração. Erros internos anexados
// com c.Error saem em nível ERROR com a causa original.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if actor := c.GetString("user_id"); actor != "" {
			fields = append(fields, "user_id", actor)
		}

		switch {
		case len(c.Errors) > 0:
			log.Error("Requisição com erro", append(fields, "error", c.Errors.String())...)
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("Requisição falhou", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("Requisição rejeitada", fields...)
		default:
			log.Info("Requisição concluída", fields...)
		}
	}
}

// Metrics conta as requisições por rota registrada e status
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}

// Recovery transforma panics em 500 no envelope padrão
func Recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Panic recuperado", "request_id", GetRequestID(c), "panic", fmt.Sprint(recovered))
		dto.WriteError(c, apperror.Internal(fmt.Errorf("panic: %v", recovered)))
	})
}

// CORS libera as origens configuradas. Requisições sem Origin (aplicativo
// móvel, curl) passam quando AllowNoOrigin está ligado.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Origins))
	for _, o := range cfg.Origins {
		allowed[o] = true
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if origin == "" {
				return cfg.AllowNoOrigin
			}
			return allowed["*"] || allowed[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// NotFound responde rotas inexistentes no envelope padrão
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		dto.WriteError(c, apperror.NotFound(apperror.CodeNotFound,
			fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path)))
	}
}
