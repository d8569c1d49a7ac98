package router

import (
	"trac/internal/handler"
	"trac/internal/middleware"

	"github.com/gin-gonic/gin"
)

type APIRouter struct {
	auth           *middleware.Auth
	sessionHandler *handler.SessionHandler
	teamHandler    *handler.TeamHandler
}

func NewAPIRouter(
	auth *middleware.Auth,
	sessionHandler *handler.SessionHandler,
	teamHandler *handler.TeamHandler,
) *APIRouter {
	return &APIRouter{
		auth:           auth,
		sessionHandler: sessionHandler,
		teamHandler:    teamHandler,
	}
}

// RegisterRoutes /api 底下皆需 Bearer JWT
func (ar *APIRouter) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api", ar.auth.Handler())
	{
		api.POST("/session", ar.sessionHandler.SignIn)
		api.DELETE("/session", ar.sessionHandler.SignOut)

		org := api.Group("/org")
		org.GET("", ar.teamHandler.Organization)
		org.GET("/stats", ar.teamHandler.Stats)
		org.GET("/stats/cached", ar.teamHandler.CachedStats)
		org.GET("/employees", ar.teamHandler.Employees)
		org.GET("/workforce", ar.teamHandler.Workforce)

		api.GET("/employees/:id/detail", ar.teamHandler.EmployeeDetail)
	}
}
