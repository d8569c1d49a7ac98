package handler

import (
	"net/http"

	"trac/internal/pkg/response"
	"trac/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthStatus *service.HealthService
}

func NewHealthHandler(status *service.HealthService) *HealthHandler {
	return &HealthHandler{healthStatus: status}
}

// Check 負載平衡器用的簡易存活檢查（回傳統一格式）
// @Summary 服務存活檢查
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health-check [get]
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, response.Response{
		Code:        0,
		Data:        "ok",
		Message:     "success",
		Description: "service is alive",
	})
	c.Abort()
}

// Liveness k8s liveness probe
// @Summary liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503
// @Router /health/liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.AbortWithStatus(http.StatusServiceUnavailable)
}

// Readiness 啟動完成且 MongoDB / Redis 可連線
// @Summary readiness probe
// @Description 失敗時列出各依賴的檢查結果
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]any
// @Router /health/readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	if h.healthStatus.IsReady(ctx) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "not-ready", "dependencies": h.healthStatus.Check(ctx)})
}
