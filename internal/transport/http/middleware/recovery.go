package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "cafeteria-reservations/internal/transport/http/response"
)

// RecoveryResponse panic 后的统一响应；日志由 ginzap 负责
func RecoveryResponse(c *gin.Context, _ any) {
	c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
}
