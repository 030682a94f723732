package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Status godoc
// @Summary 就绪探针
// @Description 返回服务就绪状态
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{} "就绪"
// @Router /api/health [get]
func (c *HealthController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
