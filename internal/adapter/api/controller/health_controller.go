package controller

import (
	"net/http"
	"time"

	"github.com/abdesslemchebili/rebornBackend/internal/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// Health responde {success:true, data:{timestamp}}
func Health(ctx *gin.Context) {
	dto.Success(ctx, http.StatusOK, gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)})
}
