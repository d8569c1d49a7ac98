package handler

import (
	"trac/internal/core"
	"trac/internal/middleware"
	cErr "trac/internal/pkg/error"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
)

// ProviderSet Provider对象集合
var ProviderSet = wire.NewSet(
	NewSessionHandler,
	NewTeamHandler,
	NewHealthHandler,
)

// requireActor 取出 Auth middleware 驗證過的 actor
func requireActor(c *gin.Context) (core.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok || actor.ID == "" {
		return core.Actor{}, cErr.Unauthorized("missing actor")
	}
	return actor, nil
}
