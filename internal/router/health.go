package router

import (
	"trac/internal/handler"

	"github.com/gin-gonic/gin"
)

// HealthRouter 探針路由，不經過 Auth
type HealthRouter struct {
	healthHandler *handler.HealthHandler
}

func NewHealthRouter(healthHandler *handler.HealthHandler) *HealthRouter {
	return &HealthRouter{healthHandler: healthHandler}
}

func (hr *HealthRouter) RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health-check", hr.healthHandler.Check)

	probes := r.Group("/health")
	probes.GET("/liveness", hr.healthHandler.Liveness)
	probes.GET("/readiness", hr.healthHandler.Readiness)
}
